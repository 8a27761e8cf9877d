package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wspanel/internal/adapter/output"
	"github.com/jmylchreest/wspanel/internal/hyprland"
	"github.com/jmylchreest/wspanel/internal/workspace"
)

var stateOpts struct {
	format   string
	all      bool
	template string
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the workspace slots as the panel would show them",
	Long: `Query the compositor once and print the resulting slot state.

Formats:
  table   aligned columns (default)
  json    JSON object
  yaml    YAML document
  plain   one line per slot from --template

Template fields for plain output: .ID .Visible .Active .Icon .Windows
Template functions: upper, lower, classes

Examples:
  wspanel state
  wspanel state --format json --all
  wspanel state --format plain --template '{{.ID}}:{{classes .Windows}}'`,
	RunE: runState,
}

func init() {
	rootCmd.AddCommand(stateCmd)

	stateCmd.Flags().StringVarP(&stateOpts.format, "format", "f", string(output.FormatTable),
		"Output format (table, json, yaml, plain)")
	stateCmd.Flags().BoolVarP(&stateOpts.all, "all", "a", false,
		"Include hidden slots")
	stateCmd.Flags().StringVar(&stateOpts.template, "template", "",
		"Go template for plain output")
}

func runState(cmd *cobra.Command, args []string) error {
	formatter, err := output.NewFormatter(output.FormatType(stateOpts.format), output.FormatterOptions{
		All:      stateOpts.all,
		Template: stateOpts.template,
	})
	if err != nil {
		return err
	}

	sockets, err := hyprland.DetectSockets(cfg.Hyprland.InstanceSignature)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	parser := hyprland.NewParser(cfg.Workspaces.Count)
	snap, err := hyprland.NewClient(sockets, logger).Snapshot(ctx, parser)
	if err != nil {
		return fmt.Errorf("failed to query compositor state: %w", err)
	}

	model, err := workspace.NewModel(cfg.Workspaces.Count)
	if err != nil {
		return err
	}
	if _, err := model.Reconcile(snap); err != nil {
		return fmt.Errorf("failed to reconcile snapshot: %w", err)
	}

	return formatter.Format(os.Stdout, output.FromModel(model))
}
