package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"rxc/internal/buildpipeline"
	"rxc/internal/suite"
	"rxc/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type suiteOutcome struct {
	report *suite.Report
	err    error
}

// runSuiteWithUI runs the suite while a progress view consumes its events.
func runSuiteWithUI(ctx context.Context, m *suite.Manifest, opts suite.RunOptions) (*suite.Report, error) {
	files := make([]string, len(m.Cases))
	for i, c := range m.Cases {
		files[i] = buildpipeline.DisplayPath(c.Path, m.Dir)
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan suiteOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = buildpipeline.ChannelSink{Ch: events}
		report, err := suite.Run(ctx, m, runOpts)
		outcomeCh <- suiteOutcome{report: report, err: err}
		close(events)
	}()

	title := m.Name
	if title == "" {
		title = "batch"
	}
	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit before the run ends
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
