package main

import (
	"fmt"
	"strings"

	"github.com/amp-labs/amp-fsm/visualizer"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	var (
		direction  string
		current    string
		highlight  []string
		conditions bool
		compact    bool
		title      bool
	)

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Print a Mermaid state diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, err := loadMachine(args[0])
			if err != nil {
				return err
			}

			opts := visualizer.DefaultOptions().
				WithDirection(strings.ToUpper(direction)).
				WithShowConditions(conditions).
				WithExpandWildcards(!compact).
				WithTitleLabels(title).
				WithCurrent(current).
				WithHighlightPath(highlight)

			diagram, err := visualizer.GenerateMermaidWithOptions(machine.Class().Describe(), opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), diagram)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&direction, "direction", "TB", "diagram direction (TB, LR, BT, RL)")
	flags.StringVar(&current, "current", "", "state to highlight as current")
	flags.StringSliceVar(&highlight, "highlight", nil, "states on the path to highlight")
	flags.BoolVar(&conditions, "conditions", true, "label edges with their conditions")
	flags.BoolVar(&compact, "compact", false, "draw wildcard methods from a single node")
	flags.BoolVar(&title, "title", false, "title-case state labels")

	return cmd
}
