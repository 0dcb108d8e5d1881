// Package db creates store drivers from the server profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/studymate/studymate/internal/profile"
	"github.com/studymate/studymate/store"
	"github.com/studymate/studymate/store/db/postgres"
	"github.com/studymate/studymate/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile. PostgreSQL is the
// production driver with pgvector-backed chunk search; SQLite serves
// development and small deployments with an in-process fallback.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
