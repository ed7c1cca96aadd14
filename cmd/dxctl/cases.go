package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/suPer8Hu/dxcases/internal/cases"
)

func caseService(gdb *gorm.DB) *cases.Service {
	// read and delete paths never reach the moderation gate
	return cases.NewService(cases.NewRepo(gdb), nil, nil, 0)
}

func NewCasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Lists or deletes published cases.",
	}
	cmd.AddCommand(newCasesListCommand(), newCasesDeleteCommand())
	return cmd
}

func newCasesListCommand() *cobra.Command {
	f := NewDatabaseFlags()
	q := cases.ListQuery{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Prints one page of cases, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := f.Open()
			if err != nil {
				return err
			}
			page, err := caseService(gdb).List(cmd.Context(), q)
			if err != nil {
				return errors.WithMessage(err, "could not list cases")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tTITLE\tTAGS")
			for _, c := range page.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.CreatedAt.Format("2006-01-02 15:04"), c.Title, strings.Join(c.Tags, ","))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d of %d cases\n", page.Page, len(page.Items), page.Total)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", 20, "Cases per page")
	cmd.Flags().StringVar(&q.Keyword, "query", "", "Only cases whose title or summary contains this text")
	cmd.Flags().StringVar(&q.Tag, "tag", "", "Only cases carrying this tag")
	return cmd
}

func newCasesDeleteCommand() *cobra.Command {
	f := NewDatabaseFlags()
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Deletes a case. Requires --yes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := f.Open()
			if err != nil {
				return err
			}
			if err := caseService(gdb).Delete(cmd.Context(), args[0], yes); err != nil {
				if errors.Is(err, cases.ErrConfirmRequired) {
					return errors.New("refusing to delete without --yes")
				}
				return errors.WithMessagef(err, "could not delete case %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}
