package model

import "time"

// SentimentRecord is an append-only log entry, never mutated after creation.
// "Latest" means most recent by timestamp, ties broken by insertion order (id).
type SentimentRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Symbol     string    `gorm:"not null;index:idx_sentiment_symbol_ts" json:"symbol"`
	Sentiment  string    `gorm:"not null" json:"sentiment"`
	Score      float64   `gorm:"not null" json:"score"`
	Confidence float64   `gorm:"not null" json:"confidence"`
	SourceText string    `json:"source_text"`
	Timestamp  time.Time `gorm:"not null;index:idx_sentiment_symbol_ts" json:"timestamp"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SentimentRecord) TableName() string {
	return "sentiment_records"
}
