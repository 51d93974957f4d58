package model

import "time"

// PriceHistoryPoint is append-only; readers take descending-timestamp windows.
type PriceHistoryPoint struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Symbol        string    `gorm:"not null;index:idx_price_history_symbol_ts" json:"symbol"`
	Price         float64   `gorm:"not null" json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `gorm:"not null;index:idx_price_history_symbol_ts" json:"timestamp"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PriceHistoryPoint) TableName() string {
	return "price_history_points"
}
