// Package persistence provides database storage implementations.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/salonsuite/bella/domain/account"
	"github.com/salonsuite/bella/internal/database"
	"gorm.io/gorm"
)

// allModels returns every GORM model the schema carries.
func allModels() []any {
	return []any{
		&UserModel{},
		&CalendarModel{},
		&EntryModel{},
		&TemplateModel{},
		&JobModel{},
		&UsageModel{},
		&MetricModel{},
	}
}

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	if err := db.GORM().AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// ValidateSchema verifies every model column exists in the database.
// Catches drift between GORM models and a database migrated by an older
// binary before it surfaces as a runtime query error.
func ValidateSchema(db database.Database) error {
	gdb := db.GORM()
	migrator := gdb.Migrator()

	var missing []string
	for _, model := range allModels() {
		stmt := &gorm.Statement{DB: gdb}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("parse model schema: %w", err)
		}

		columnTypes, err := migrator.ColumnTypes(model)
		if err != nil {
			return fmt.Errorf("get column types for %s: %w", stmt.Table, err)
		}

		actual := make(map[string]bool, len(columnTypes))
		for _, ct := range columnTypes {
			actual[ct.Name()] = true
		}

		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" || field.DBName == "-" {
				continue
			}
			if !actual[field.DBName] {
				missing = append(missing, stmt.Table+"."+field.DBName)
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("schema validation failed, missing columns: %s",
			strings.Join(missing, ", "))
	}
	return nil
}

// SeedDefaultUser ensures the single-tenant default account exists and
// returns it. Idempotent: an existing row is returned untouched.
func SeedDefaultUser(ctx context.Context, db database.Database) (account.User, error) {
	store := NewUserStore(db)

	existing, err := store.GetByEmail(ctx, account.DefaultUserEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return account.User{}, fmt.Errorf("look up default user: %w", err)
	}

	seeded, err := store.Save(ctx, account.NewUser(account.DefaultUserEmail, "Salon Suite Digital Studio"))
	if err != nil {
		return account.User{}, fmt.Errorf("seed default user: %w", err)
	}
	return seeded, nil
}
