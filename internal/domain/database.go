package domain

import "time"

// DatabaseRecord tracks a database created for a hosting account. The
// (DBName, DBUser) pair is unique per account; the panel does not enforce
// this, so the orchestrator checks locally before any remote call.
type DatabaseRecord struct {
	ID        int64
	Username  string
	DBName    string
	DBUser    string
	CreatedAt time.Time
}
