package domain

// DefaultBackupRetentionDays applies when the stored retention setting is
// missing or invalid.
const DefaultBackupRetentionDays = 30

// Settings is the operator-editable runtime configuration row.
type Settings struct {
	AllowRegistration   bool
	MaintenanceMode     bool
	BackupEnabled       bool
	BackupRetentionDays int
}

// RetentionDays returns the validated backup retention window.
func (s *Settings) RetentionDays() int {
	if s.BackupRetentionDays <= 0 {
		return DefaultBackupRetentionDays
	}
	return s.BackupRetentionDays
}
