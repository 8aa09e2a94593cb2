package model

import "time"

type Transaction struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	CustomerID   int64     `gorm:"column:customer_id;not null;index:idx_transactions_customer"`
	Item         string    `gorm:"column:item;type:varchar(255);not null"`
	Quantity     float64   `gorm:"column:quantity;not null"`
	PricePerUnit float64   `gorm:"column:price_per_unit;not null"`
	Total        float64   `gorm:"column:total;not null"`
	Timestamp    time.Time `gorm:"column:timestamp;not null"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Entry is a transaction joined with its owning customer's name.
type Entry struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Item         string    `json:"item"`
	Quantity     float64   `json:"quantity"`
	PricePerUnit float64   `json:"price_per_unit"`
	Total        float64   `json:"total"`
	Timestamp    time.Time `json:"timestamp"`
}
