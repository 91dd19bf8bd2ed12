package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartInactiveVehicleCleaner purges vehicles that were deactivated longer
// than the retention period ago, on the given interval.
func StartInactiveVehicleCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM vehicles
                     WHERE is_active = false
                       AND deactivated_at IS NOT NULL
                       AND deactivated_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean deactivated vehicles", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned deactivated vehicles", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
