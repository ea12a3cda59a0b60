package account

import "context"

// DefaultUserEmail identifies the account seeded at migration for
// single-tenant deployments.
const DefaultUserEmail = "default@bella.local"

// Store defines operations for user persistence.
type Store interface {
	// Get returns a user by ID.
	Get(ctx context.Context, id int64) (User, error)

	// GetByEmail returns a user by email.
	GetByEmail(ctx context.Context, email string) (User, error)

	// Save persists a new user, assigning an ID.
	Save(ctx context.Context, u User) (User, error)

	// Update rewrites a user's mutable fields.
	Update(ctx context.Context, u User) error

	// AddQuotaUsed atomically charges posts against a user's quota.
	AddQuotaUsed(ctx context.Context, id int64, posts int) error
}
