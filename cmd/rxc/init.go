package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rxc/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [flags] [dir]",
	Short: "Create rxc.toml and a source directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "project name (default: directory name)")
	initCmd.Flags().Bool("force", false, "overwrite an existing rxc.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(abs)
	}
	force, _ := cmd.Flags().GetBool("force")

	path, err := project.Init(abs, name, force)
	if errors.Is(err, project.ErrManifestExists) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
