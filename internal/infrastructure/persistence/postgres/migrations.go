package postgres

import "embed"

// Migrations holds the schema for the rate offer store, in golang-migrate
// file naming.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the files.
const MigrationsDir = "migrations"
