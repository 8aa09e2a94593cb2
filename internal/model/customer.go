package model

import "time"

const DefaultRiskScore = "Low"

type Customer struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement;<-:create" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);uniqueIndex:idx_customers_name;not null" json:"name"`
	RiskScore string    `gorm:"column:risk_score;type:varchar(16);not null;default:'Low'" json:"risk_score"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
