package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// CustomParam is one key-value query parameter attached to a link.
// Pairs with an empty key or value are stored but ignored at redirect time.
type CustomParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CustomParams is an ordered list of custom parameters, stored as JSONB.
type CustomParams []CustomParam

func (p CustomParams) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *CustomParams) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("custom_params: unsupported source type")
	}
}

// Link is a short link. LandingPageID == nil marks a standalone link that
// resolves through the top-level catch-all; page links are only reachable
// through their page.
type Link struct {
	ID             string       `gorm:"primaryKey;size:36" json:"id"`
	UserID         string       `gorm:"size:36;not null;index" json:"user_id"`
	LandingPageID  *string      `gorm:"size:36;index" json:"landing_page_id"`
	Title          string       `gorm:"size:255;not null" json:"title"`
	Description    *string      `gorm:"type:text" json:"description"`
	DestinationURL string       `gorm:"type:text;not null" json:"destination_url"`
	ShortCode      string       `gorm:"size:32;not null;uniqueIndex" json:"short_code"`
	ExpirationDate *time.Time   `gorm:"index" json:"expiration_date"`
	ClickCount     int64        `gorm:"not null;default:0" json:"click_count"`
	Position       int          `gorm:"not null;default:0" json:"position"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	UTMSource      *string      `gorm:"size:255" json:"utm_source"`
	UTMMedium      *string      `gorm:"size:255" json:"utm_medium"`
	UTMCampaign    *string      `gorm:"size:255" json:"utm_campaign"`
	UTMTerm        *string      `gorm:"size:255" json:"utm_term"`
	UTMContent     *string      `gorm:"size:255" json:"utm_content"`
	CustomParams   CustomParams `gorm:"type:jsonb" json:"custom_params"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
