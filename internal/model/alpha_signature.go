package model

import "time"

// AlphaSignature rows are append-only; the current value for a symbol is the
// most recent by timestamp (id breaks ties), older rows serve trend queries.
type AlphaSignature struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Symbol          string    `gorm:"not null;index:idx_alpha_symbol_ts" json:"symbol"`
	AlphaScore      float64   `gorm:"not null" json:"alpha_score"`
	SentimentScore  float64   `gorm:"not null" json:"sentiment_score"`
	VolatilityScore float64   `gorm:"not null" json:"volatility_score"`
	MomentumScore   float64   `gorm:"not null" json:"momentum_score"`
	Signal          string    `gorm:"not null" json:"signal"`
	Timestamp       time.Time `gorm:"not null;index:idx_alpha_symbol_ts" json:"timestamp"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AlphaSignature) TableName() string {
	return "alpha_signatures"
}
