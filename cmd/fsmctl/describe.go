package main

import (
	"fmt"
	"strings"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	var (
		raw   bool
		style string
		width int
	)

	cmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "Summarize a definition as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, err := loadMachine(args[0])
			if err != nil {
				return err
			}

			doc := describeMarkdown(machine.Class().Describe())
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)

				return err
			}

			rendered, err := renderMarkdown(doc, style, width)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)

			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&raw, "raw", false, "print Markdown without rendering")
	flags.StringVar(&style, "style", "auto", "glamour style (auto, dark, light, notty)")
	flags.IntVar(&width, "width", 100, "word wrap width")

	return cmd
}

func renderMarkdown(doc, style string, width int) (string, error) {
	styleOpt := glamour.WithStandardStyle(style)
	if style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := renderer.Render(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	return out, nil
}

func describeMarkdown(graph fsm.Graph) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", graph.Class)
	fmt.Fprintf(&sb, "Initial state: `%s`\n\n", graph.Initial)

	states := graph.States()
	names := make([]string, len(states))

	for i, state := range states {
		names[i] = "`" + string(state) + "`"
	}

	fmt.Fprintf(&sb, "States: %s\n\n", strings.Join(names, ", "))

	sb.WriteString("## Methods\n")

	for _, method := range graph.Methods {
		fmt.Fprintf(&sb, "\n### %s\n\n", method.Name)

		if method.Doc != "" {
			fmt.Fprintf(&sb, "%s\n\n", method.Doc)
		}

		sb.WriteString("| From | To | Conditions | Save |\n")
		sb.WriteString("|------|----|------------|------|\n")

		for _, rule := range method.Rules {
			source := "`" + string(rule.Source) + "`"
			if rule.Source.IsWildcard() {
				source = "any"
			}

			conditions := "-"
			if len(rule.Labels) > 0 {
				conditions = "`" + strings.Join(rule.Labels, "`, `") + "`"
			} else if rule.Conditions > 0 {
				conditions = fmt.Sprintf("%d guard(s)", rule.Conditions)
			}

			conditions = strings.ReplaceAll(conditions, "|", `\|`)

			save := "no"
			if rule.Save {
				save = "yes"
			}

			fmt.Fprintf(&sb, "| %s | `%s` | %s | %s |\n", source, rule.Target, conditions, save)
		}
	}

	return sb.String()
}
