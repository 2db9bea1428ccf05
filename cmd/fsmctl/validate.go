package main

import (
	"errors"
	"fmt"

	"github.com/amp-labs/amp-fsm/validator"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Lint state machine definitions",
		Long:  `Checks every file for structural errors and suspicious transitions. Exits non-zero when any file has errors.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0

			for _, file := range validator.ValidateFiles(args, strict) {
				if file.Err != nil {
					failed++

					fmt.Fprintf(out, "%s: %v\n", file.Path, file.Err)

					continue
				}

				if file.Result.HasErrors() {
					failed++
				}

				if file.Result.Valid && !file.Result.HasWarnings() {
					fmt.Fprintf(out, "%s: ok\n", file.Path)

					continue
				}

				fmt.Fprintf(out, "%s:\n%s", file.Path, file.Result.String())
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errValidationFailed, failed, len(args))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")

	return cmd
}
