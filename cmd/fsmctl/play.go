package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/amp-fsm/definition"
	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/store"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const quitItem = "[quit]"

func newPlayCmd(a *app) *cobra.Command {
	var (
		rawArgs []string
		rawData []string
		id      string
	)

	cmd := &cobra.Command{
		Use:   "play FILE",
		Short: "Walk a definition interactively",
		Long: `Creates a document, lists the transitions accessible from its state and fires
the one you pick until no transition is left. With FSM_STORE set, transitions
declared with save: true persist the document, and --id resumes a saved one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, err := loadMachine(args[0])
			if err != nil {
				return err
			}

			callArgs := parseCallArgs(rawArgs)

			doc := machine.New()
			if id != "" {
				doc.ID = id
			}

			for key, value := range parseData(rawData) {
				doc.Set(key, value)
			}

			ctx := cmd.Context()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			if st != nil {
				persister := store.NewPersister(st, machine.Definition().Name, func(d *definition.Document) string {
					return d.ID
				})

				if _, err := persister.Restore(ctx, doc); err != nil && !errors.Is(err, store.ErrNotFound) {
					return err
				}

				doc.OnSave = func(ctx context.Context, d *definition.Document) error {
					return persister.Persist(ctx, d)
				}
			}

			return a.play(ctx, cmd.OutOrStdout(), machine, doc, callArgs)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&rawArgs, "arg", nil, "call argument, positional (value) or named (key=value)")
	flags.StringArrayVar(&rawData, "set", nil, "document data (key=value)")
	flags.StringVar(&id, "id", "", "document id, resumed from the store when present")

	return cmd
}

func (a *app) play(
	ctx context.Context, out io.Writer, machine *definition.Machine, doc *definition.Document, args []any,
) error {
	for {
		state, err := fsm.CurrentState(doc)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s %s is %s\n", machine.Definition().Name, doc.ID, state)

		available, err := machine.Accessible(ctx, doc, args...)
		if err != nil {
			return err
		}

		if len(available) == 0 {
			fmt.Fprintf(out, "No transitions from %s\n", state)

			return nil
		}

		items := make([]string, 0, len(available)+1)
		for _, next := range available {
			items = append(items, next.Method.Name()+" -> "+string(next.Target))
		}

		items = append(items, quitItem)

		idx, err := a.chooser.Choose("Transition", items)
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if idx >= len(available) {
			return nil
		}

		result, err := available[idx].Method.Fire(ctx, doc, args...)
		if err != nil {
			return err
		}

		if !result.Applied {
			fmt.Fprintf(out, "%s was rejected\n", result.Method)
		}
	}
}

// parseCallArgs turns "--arg value" into positional and "--arg k=v" into named
// arguments.
func parseCallArgs(raw []string) []any {
	args := make([]any, 0, len(raw))

	for _, arg := range raw {
		if key, value, ok := strings.Cut(arg, "="); ok && key != "" {
			args = append(args, fsm.Named(key, value))

			continue
		}

		args = append(args, arg)
	}

	return args
}

func parseData(raw []string) map[string]string {
	data := make(map[string]string, len(raw))

	for _, kv := range raw {
		key, value, _ := strings.Cut(kv, "=")
		data[key] = value
	}

	return data
}
