// Package migrations registers the database schema migrations.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every registered migration in order.
var Migrations = migrate.NewMigrations()
