// Package account provides user account domain types with per-account
// generation quotas.
package account

import "time"

// Tier represents a subscription level.
type Tier string

// Tier values.
const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Valid reports whether the tier is a known value.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierEnterprise:
		return true
	}
	return false
}

// DefaultQuotaLimit is the monthly post quota for new accounts.
const DefaultQuotaLimit = 100

// User represents an account that owns calendars and templates.
type User struct {
	id           int64
	email        string
	businessName string
	tier         Tier
	quotaUsed    int
	quotaLimit   int
	active       bool
	createdAt    time.Time
}

// NewUser creates an active free-tier user with the default quota.
func NewUser(email, businessName string) User {
	return User{
		email:        email,
		businessName: businessName,
		tier:         TierFree,
		quotaLimit:   DefaultQuotaLimit,
		active:       true,
		createdAt:    time.Now().UTC(),
	}
}

// ReconstructUser reconstructs a User from persistence.
func ReconstructUser(
	id int64,
	email, businessName string,
	tier Tier,
	quotaUsed, quotaLimit int,
	active bool,
	createdAt time.Time,
) User {
	return User{
		id:           id,
		email:        email,
		businessName: businessName,
		tier:         tier,
		quotaUsed:    quotaUsed,
		quotaLimit:   quotaLimit,
		active:       active,
		createdAt:    createdAt,
	}
}

// ID returns the user ID (zero until persisted).
func (u User) ID() int64 { return u.id }

// Email returns the account email.
func (u User) Email() string { return u.email }

// BusinessName returns the business the account belongs to.
func (u User) BusinessName() string { return u.businessName }

// Tier returns the subscription tier.
func (u User) Tier() Tier { return u.tier }

// QuotaUsed returns how many posts the account has generated this period.
func (u User) QuotaUsed() int { return u.quotaUsed }

// QuotaLimit returns the account's post allowance per period.
func (u User) QuotaLimit() int { return u.quotaLimit }

// Active reports whether the account may make requests.
func (u User) Active() bool { return u.active }

// CreatedAt returns the creation timestamp.
func (u User) CreatedAt() time.Time { return u.createdAt }

// WithID returns a copy of the user with the given ID.
func (u User) WithID(id int64) User {
	u.id = id
	return u
}

// WithTier returns a copy of the user on the given tier.
func (u User) WithTier(tier Tier) User {
	u.tier = tier
	return u
}

// HasQuota reports whether the account can generate the given number of
// posts without exceeding its allowance.
func (u User) HasQuota(posts int) bool {
	return u.quotaUsed+posts <= u.quotaLimit
}

// ConsumeQuota returns a copy of the user with posts charged against
// the quota.
func (u User) ConsumeQuota(posts int) User {
	u.quotaUsed += posts
	return u
}

// QuotaRemaining returns how many posts the account can still generate.
func (u User) QuotaRemaining() int {
	remaining := u.quotaLimit - u.quotaUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
