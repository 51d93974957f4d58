package model

import "time"

type WatchlistItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_symbol" json:"user_id"`
	Symbol    string    `gorm:"not null;uniqueIndex:idx_watchlist_user_symbol" json:"symbol"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
