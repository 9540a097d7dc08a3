// Package migrations embeds the SQL schema into the binary so the roll-call
// core can migrate a fresh database without shipping .sql files.
package migrations

import (
	"embed"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
