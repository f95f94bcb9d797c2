package models

import "time"

// AuditFields holds the timestamps persisted on every mutable row.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
