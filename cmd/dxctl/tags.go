package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewTagsCommand() *cobra.Command {
	f := NewDatabaseFlags()

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Prints every tag in use, one per line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := f.Open()
			if err != nil {
				return err
			}
			tags, err := caseService(gdb).Tags(cmd.Context())
			if err != nil {
				return errors.WithMessage(err, "could not list tags")
			}
			for _, t := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
