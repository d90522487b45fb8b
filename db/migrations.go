// Package db holds the embedded SQL migrations applied at startup.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
