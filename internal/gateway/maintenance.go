package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// startMaintenance launches a background goroutine that periodically
// deletes audit rows past the retention window.
func (m *Module) startMaintenance() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.MaintenanceInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.runMaintenance()
			}
		}
	}()
}

// runMaintenance executes a single retention sweep.
func (m *Module) runMaintenance() {
	if m.store == nil || m.cfg.AuditRetentionDays <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(m.ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -m.cfg.AuditRetentionDays)
	deleted, err := m.store.DeleteOldCommands(ctx, cutoff)
	if err != nil {
		m.logger.Warn("failed to delete old audit rows", zap.Error(err))
	} else if deleted > 0 {
		m.logger.Info("purged old audit rows", zap.Int64("count", deleted))
	}
}
