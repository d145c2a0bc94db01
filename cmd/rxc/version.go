package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rxc/internal/version"
)

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("full", false, "include commit and build date")
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	full, _ := cmd.Flags().GetBool("full")
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(versionPayload{
			Tool:       "rxc",
			Version:    version.Version,
			GitCommit:  version.GitCommit,
			GitMessage: version.GitMessage,
			BuildDate:  version.BuildDate,
		})
	case "pretty":
		colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
		switch colorFlag {
		case "off":
			color.NoColor = true
		case "on":
			color.NoColor = false
		}
		_, err := fmt.Fprint(out, version.Banner(full))
		return err
	}
	return fmt.Errorf("unknown format %q (want pretty or json)", format)
}
