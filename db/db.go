package db

import (
	"embed"
	"io/fs"
)

//go:embed migrations
var migrations embed.FS

// Seed is the demo fixture used by the seed command when no file is given.
//
//go:embed seed.yml
var Seed []byte

// Migrations returns the goose migration files for dialect ("postgres" or "sqlite").
func Migrations(dialect string) (fs.FS, error) {
	return fs.Sub(migrations, "migrations/"+dialect)
}
