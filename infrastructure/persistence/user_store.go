package persistence

import (
	"context"
	"fmt"

	"github.com/salonsuite/bella/domain/account"
	"github.com/salonsuite/bella/domain/store"
	"github.com/salonsuite/bella/internal/database"
	"gorm.io/gorm"
)

// UserStore implements account.Store using GORM.
type UserStore struct {
	db     database.Database
	repo   database.Repository[account.User, UserModel]
	mapper UserMapper
}

// NewUserStore creates a new UserStore.
func NewUserStore(db database.Database) UserStore {
	return UserStore{
		db:     db,
		repo:   database.NewRepository[account.User, UserModel](db, UserMapper{}, "user"),
		mapper: UserMapper{},
	}
}

// Get returns a user by ID.
func (s UserStore) Get(ctx context.Context, id int64) (account.User, error) {
	return s.repo.FindOne(ctx, store.WithID(id))
}

// GetByEmail returns a user by email.
func (s UserStore) GetByEmail(ctx context.Context, email string) (account.User, error) {
	return s.repo.FindOne(ctx, store.WithCondition("email", email))
}

// Save persists a new user, assigning an ID.
func (s UserStore) Save(ctx context.Context, u account.User) (account.User, error) {
	model := s.mapper.ToModel(u)
	if result := s.db.Session(ctx).Create(&model); result.Error != nil {
		return account.User{}, fmt.Errorf("save user: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}

// Update rewrites a user's mutable fields.
func (s UserStore) Update(ctx context.Context, u account.User) error {
	model := s.mapper.ToModel(u)
	result := s.db.Session(ctx).Model(&UserModel{}).Where("id = ?", model.ID).Updates(map[string]any{
		"business_name":       model.BusinessName,
		"subscription_tier":   model.SubscriptionTier,
		"monthly_quota_used":  model.QuotaUsed,
		"monthly_quota_limit": model.QuotaLimit,
		"is_active":           model.IsActive,
	})
	if result.Error != nil {
		return fmt.Errorf("update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user id %d", database.ErrNotFound, model.ID)
	}
	return nil
}

// AddQuotaUsed atomically charges posts against a user's quota.
func (s UserStore) AddQuotaUsed(ctx context.Context, id int64, posts int) error {
	result := s.db.Session(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Update("monthly_quota_used", gorm.Expr("monthly_quota_used + ?", posts))
	if result.Error != nil {
		return fmt.Errorf("add quota used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user id %d", database.ErrNotFound, id)
	}
	return nil
}

var _ account.Store = (*UserStore)(nil)
