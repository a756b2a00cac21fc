package gateway

import (
	"database/sql"

	"github.com/HerbHall/wispgate/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create gateway audit log table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS gateway_audit_log (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						router_id TEXT NOT NULL,
						protocol TEXT NOT NULL,
						method TEXT NOT NULL,
						path TEXT NOT NULL,
						status INTEGER NOT NULL DEFAULT 0,
						outcome TEXT NOT NULL,
						error TEXT NOT NULL DEFAULT '',
						duration_ms INTEGER NOT NULL DEFAULT 0,
						created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE INDEX IF NOT EXISTS idx_gateway_audit_created ON gateway_audit_log(created_at)`,
					`CREATE INDEX IF NOT EXISTS idx_gateway_audit_router ON gateway_audit_log(router_id)`,
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
