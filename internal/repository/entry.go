package repository

import (
	"context"
	"errors"

	"github.com/Behyna/hisabkitab/internal/model"
	"gorm.io/gorm"
)

var ErrEntryNotFound = errors.New("ENTRY_NOT_FOUND")

type EntryFields struct {
	CustomerID   int64
	Item         string
	Quantity     float64
	PricePerUnit float64
	Total        float64
}

type EntryRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, id int64) (model.Transaction, error)
	List(ctx context.Context) ([]model.Entry, error)
	Update(ctx context.Context, id int64, fields EntryFields) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type entry struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entry{db: db}
}

func (e *entry) Create(ctx context.Context, tx *model.Transaction) error {
	return GetTx(ctx, e.db).Create(tx).Error
}

func (e *entry) GetByID(ctx context.Context, id int64) (model.Transaction, error) {
	var tx model.Transaction
	err := GetTx(ctx, e.db).Where("id = ?", id).Take(&tx).Error
	if err == nil {
		return tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Transaction{}, ErrEntryNotFound
	}

	return model.Transaction{}, err
}

// List returns every entry, newest first by insertion order.
func (e *entry) List(ctx context.Context) ([]model.Entry, error) {
	entries := make([]model.Entry, 0)

	err := GetTx(ctx, e.db).Table("transactions AS t").
		Select("t.id, t.customer_id, c.name AS customer_name, t.item, t.quantity, t.price_per_unit, t.total, t.timestamp").
		Joins("JOIN customers AS c ON c.id = t.customer_id").
		Order("t.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (e *entry) Update(ctx context.Context, id int64, fields EntryFields) error {
	db := GetTx(ctx, e.db)

	// map form so zero quantities and prices are written too
	result := db.Model(&model.Transaction{}).Where("id = ?", id).Updates(map[string]any{
		"customer_id":    fields.CustomerID,
		"item":           fields.Item,
		"quantity":       fields.Quantity,
		"price_per_unit": fields.PricePerUnit,
		"total":          fields.Total,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when nothing changed.
	var count int64
	if err := db.Model(&model.Transaction{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (e *entry) Delete(ctx context.Context, id int64) error {
	result := GetTx(ctx, e.db).Where("id = ?", id).Delete(&model.Transaction{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (e *entry) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetTx(ctx, e.db).Model(&model.Transaction{}).Count(&count).Error
	return count, err
}
