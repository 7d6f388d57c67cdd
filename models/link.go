package models

import (
	"time"
)

type ShortLink struct {
	ID          string      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uint        `json:"user_id" gorm:"index;not null"`
	OriginalURL string      `json:"original_url" gorm:"type:text;not null"`
	ShortCode   string      `json:"short_code" gorm:"uniqueIndex;size:16;not null"`
	ClickCount  int64       `json:"click_count" gorm:"not null;default:0"`
	CreatedAt   time.Time   `json:"created_at"`
	ExpiresAt   *time.Time  `json:"expires_at"`
	ClickStats  []ClickStat `json:"click_stats,omitempty" gorm:"foreignKey:ShortLinkID;constraint:OnDelete:CASCADE"`
}

// Expired reports whether the link has an expiry in the past.
func (l *ShortLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}
