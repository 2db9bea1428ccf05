package main

import (
	"fmt"

	"github.com/amp-labs/amp-fsm/definition"
	"github.com/amp-labs/amp-fsm/shutdown"
	"github.com/spf13/cobra"
)

// app holds what the commands share. Tests replace the chooser.
type app struct {
	cfg     Config
	hooks   *shutdown.Handler
	chooser chooser
}

func newApp(cfg Config, hooks *shutdown.Handler) *app {
	return &app{
		cfg:     cfg,
		hooks:   hooks,
		chooser: promptChooser{},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Work with YAML state machine definitions",
		SilenceUsage: true,
	}

	root.AddCommand(
		newValidateCmd(),
		newGraphCmd(),
		newDescribeCmd(),
		newPlayCmd(a),
	)

	return root
}

func loadMachine(path string) (*definition.Machine, error) {
	def, err := definition.Load(path)
	if err != nil {
		return nil, err
	}

	machine, err := def.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", path, err)
	}

	return machine, nil
}
