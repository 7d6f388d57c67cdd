package models

import (
	"time"
)

type ClickStat struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	ShortLinkID string    `json:"short_link_id" gorm:"type:uuid;index;not null"`
	IPAddress   string    `json:"ip_address" gorm:"size:50"`
	UserAgent   string    `json:"user_agent" gorm:"type:text"`
	ClickedAt   time.Time `json:"clicked_at"`
}
