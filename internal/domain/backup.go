package domain

import "time"

// BackupType enumerates supported backup kinds.
type BackupType string

const (
	BackupTypeFull BackupType = "FULL"
)

// BackupStatus reflects the outcome of a backup request.
type BackupStatus string

const (
	BackupStatusCompleted BackupStatus = "COMPLETED"
)

// BackupRecord is an append-only log entry for a panel backup run. Records
// are removed only by retention cleanup.
type BackupRecord struct {
	ID        int64
	Username  string
	Type      BackupType
	Status    BackupStatus
	CreatedAt time.Time
}
