package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/suPer8Hu/dxcases/internal/config"
	"github.com/suPer8Hu/dxcases/internal/db"
)

// DatabaseFlags selects the database; defaults come from the environment.
type DatabaseFlags struct {
	Driver string
	DSN    string
}

func NewDatabaseFlags() *DatabaseFlags {
	cfg := config.Load()
	return &DatabaseFlags{Driver: cfg.DBDriver, DSN: cfg.DBDSN}
}

func (f *DatabaseFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Driver, "db-driver", f.Driver, "Database driver: mysql, postgres or sqlite (env DB_DRIVER)")
	fs.StringVar(&f.DSN, "db-dsn", f.DSN, "Database DSN (env DB_DSN)")
}

func (f *DatabaseFlags) Open() (*gorm.DB, error) {
	gdb, err := db.Open(f.Driver, f.DSN)
	if err != nil {
		return nil, errors.WithMessage(err, "could not connect to db")
	}
	return gdb, nil
}
