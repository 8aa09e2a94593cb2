package repository

import (
	"context"
	"errors"

	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/pkg/gormdb"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCustomerNotFound = errors.New("CUSTOMER_NOT_FOUND")

type CustomerRepository interface {
	Upsert(ctx context.Context, name string) (int64, error)
	FindByName(ctx context.Context, name string) (model.Customer, error)
	SetRiskScore(ctx context.Context, id int64, riskScore string) error
	Count(ctx context.Context) (int64, error)
}

type customer struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customer{db: db}
}

// Upsert inserts the customer if the name is new and returns the stored id.
// Conflicts on the unique name are ignored so racing callers converge on one
// row. OnConflict DoNothing renders as ON CONFLICT DO NOTHING on sqlite and
// ON DUPLICATE KEY UPDATE on mysql, so neither raises a duplicate-key error.
func (r *customer) Upsert(ctx context.Context, name string) (int64, error) {
	db := GetTx(ctx, r.db)

	c := model.Customer{Name: name, RiskScore: model.DefaultRiskScore}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&c).Error
	if err != nil {
		return 0, err
	}

	existing, err := findByName(latestCommitted(db), name)
	if err != nil {
		return 0, err
	}

	return existing.ID, nil
}

func (r *customer) FindByName(ctx context.Context, name string) (model.Customer, error) {
	return findByName(GetTx(ctx, r.db), name)
}

func findByName(db *gorm.DB, name string) (model.Customer, error) {
	var c model.Customer
	err := db.Where("name = ?", name).Take(&c).Error
	if err == nil {
		return c, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, ErrCustomerNotFound
	}

	return model.Customer{}, err
}

// latestCommitted turns the lookup into a shared locking read on mysql.
// Under REPEATABLE READ a plain select reads the transaction's snapshot,
// which misses a name another transaction committed after the snapshot was
// taken. sqlite serializes writers and has no row locks.
func latestCommitted(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() != gormdb.DriverMySQL {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "SHARE"})
}

func (r *customer) SetRiskScore(ctx context.Context, id int64, riskScore string) error {
	result := GetTx(ctx, r.db).Model(&model.Customer{}).
		Where("id = ?", id).
		Update("risk_score", riskScore)
	return result.Error
}

func (r *customer) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetTx(ctx, r.db).Model(&model.Customer{}).Count(&count).Error
	return count, err
}
