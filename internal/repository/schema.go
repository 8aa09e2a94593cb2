package repository

import (
	"fmt"

	"github.com/Behyna/hisabkitab/internal/model"
	"gorm.io/gorm"
)

// EnsureSchema creates the customers and transactions tables when missing.
// Safe to call on every startup.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Customer{}, &model.Transaction{}); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
