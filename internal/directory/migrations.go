package directory

import (
	"database/sql"

	"github.com/HerbHall/wispgate/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create directory router tables",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS directory_meta (
						id INTEGER PRIMARY KEY CHECK (id = 1),
						salt BLOB NOT NULL,
						verification_blob BLOB NOT NULL,
						created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,

					`CREATE TABLE IF NOT EXISTS directory_routers (
						id TEXT PRIMARY KEY,
						name TEXT NOT NULL,
						host TEXT NOT NULL,
						port INTEGER NOT NULL,
						api_type TEXT NOT NULL,
						username TEXT NOT NULL,
						sealed_password BLOB NOT NULL,
						notes TEXT DEFAULT '',
						created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE INDEX IF NOT EXISTS idx_directory_routers_host ON directory_routers(host)`,
					`CREATE INDEX IF NOT EXISTS idx_directory_routers_api_type ON directory_routers(api_type)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
