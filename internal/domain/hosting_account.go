package domain

import "time"

// AccountStatus enumerates lifecycle states for hosting accounts.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusDeleted   AccountStatus = "DELETED"
)

// HostingAccount is a provisioned control panel account. The record is a
// local index of panel state; the panel itself stays authoritative. Deleted
// accounts are kept with a terminal status instead of being removed.
type HostingAccount struct {
	ID          int64
	OwnerUserID int64
	Username    string
	Domain      string
	Email       string
	PackageID   string
	Status      AccountStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var accountTransitions = map[AccountStatus][]AccountStatus{
	AccountStatusActive:    {AccountStatusSuspended, AccountStatusDeleted},
	AccountStatusSuspended: {AccountStatusActive, AccountStatusDeleted},
	AccountStatusDeleted:   {},
}

// CanTransition reports whether the status machine permits moving to next.
func (a *HostingAccount) CanTransition(next AccountStatus) bool {
	for _, candidate := range accountTransitions[a.Status] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Expired reports whether the account's paid period has lapsed.
func (a *HostingAccount) Expired(asOf time.Time) bool {
	return a.ExpiresAt.Before(asOf)
}
