package domain

import "time"

// DefaultBillingDays applies when a plan does not specify its own period.
const DefaultBillingDays = 30

// Plan is a reseller hosting package sold to end users. Quota and bandwidth
// are in megabytes, matching the panel's package API.
type Plan struct {
	ID          string
	Name        string
	QuotaMB     int64
	BandwidthMB int64
	DomainLimit int
	Price       int64
	BillingDays int
	UpdatedAt   time.Time
}

// BillingPeriod returns the paid period granted per purchase or renewal.
func (p *Plan) BillingPeriod() time.Duration {
	days := p.BillingDays
	if days <= 0 {
		days = DefaultBillingDays
	}
	return time.Duration(days) * 24 * time.Hour
}
