package model

import "time"

// UTMPreset is a reusable bundle of UTM fields owned by a user. At most one
// preset per user is marked default.
type UTMPreset struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	UTMSource   *string   `gorm:"size:255" json:"utm_source"`
	UTMMedium   *string   `gorm:"size:255" json:"utm_medium"`
	UTMCampaign *string   `gorm:"size:255" json:"utm_campaign"`
	UTMTerm     *string   `gorm:"size:255" json:"utm_term"`
	UTMContent  *string   `gorm:"size:255" json:"utm_content"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
