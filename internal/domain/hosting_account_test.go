package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountStatusTransitions(t *testing.T) {
	cases := []struct {
		from    AccountStatus
		to      AccountStatus
		allowed bool
	}{
		{AccountStatusActive, AccountStatusSuspended, true},
		{AccountStatusActive, AccountStatusDeleted, true},
		{AccountStatusSuspended, AccountStatusActive, true},
		{AccountStatusSuspended, AccountStatusDeleted, true},
		{AccountStatusDeleted, AccountStatusActive, false},
		{AccountStatusDeleted, AccountStatusSuspended, false},
		{AccountStatusActive, AccountStatusActive, false},
	}
	for _, tc := range cases {
		account := &HostingAccount{Status: tc.from}
		assert.Equal(t, tc.allowed, account.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAccountExpired(t *testing.T) {
	now := time.Now()
	account := &HostingAccount{ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, account.Expired(now))

	account.ExpiresAt = now.Add(time.Hour)
	assert.False(t, account.Expired(now))
}

func TestPlanBillingPeriodDefaults(t *testing.T) {
	plan := &Plan{}
	assert.Equal(t, time.Duration(DefaultBillingDays)*24*time.Hour, plan.BillingPeriod())

	plan.BillingDays = 90
	assert.Equal(t, 90*24*time.Hour, plan.BillingPeriod())
}

func TestSettingsRetentionDaysDefaults(t *testing.T) {
	settings := &Settings{}
	assert.Equal(t, DefaultBackupRetentionDays, settings.RetentionDays())

	settings.BackupRetentionDays = 7
	assert.Equal(t, 7, settings.RetentionDays())
}
