package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/suPer8Hu/dxcases/internal/db"
)

func NewMigrateCommand() *cobra.Command {
	f := NewDatabaseFlags()

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Creates or updates the cases, moderation_logs and illustration_jobs tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := f.Open()
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(gdb); err != nil {
				return errors.WithMessage(err, "could not migrate db")
			}
			log.WithField("driver", f.Driver).Info("schema up to date")
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
