package model

import "time"

type Holding struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Symbol      string    `gorm:"not null" json:"symbol"`
	Shares      float64   `gorm:"not null" json:"shares"`
	AvgCost     float64   `gorm:"not null" json:"avg_cost"`
	AssetType   string    `gorm:"not null" json:"asset_type"`
	Sector      string    `json:"sector,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Snapshot refreshed on read, never persisted.
	CurrentPrice float64 `gorm:"-" json:"current_price,omitempty"`
}

func (Holding) TableName() string {
	return "holdings"
}
