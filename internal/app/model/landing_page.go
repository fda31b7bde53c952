package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Page visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// ThemeConfig holds the visual customisation of a landing page, stored as JSONB.
type ThemeConfig struct {
	BackgroundColor string `json:"background_color,omitempty"`
	TextColor       string `json:"text_color,omitempty"`
	ButtonStyle     string `json:"button_style,omitempty"` // rounded, square or pill
	FontFamily      string `json:"font_family,omitempty"`
	CustomCSS       string `json:"custom_css,omitempty"`
}

func (t *ThemeConfig) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *ThemeConfig) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("theme_config: unsupported source type")
	}
}

// LandingPage is a profile-style page with an ordered list of child links,
// addressed by a globally unique slug.
type LandingPage struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"size:36;not null;index" json:"user_id"`
	Slug        string       `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	ProfileName string       `gorm:"size:255;not null" json:"profile_name"`
	Bio         *string      `gorm:"type:text" json:"bio"`
	ThemeConfig *ThemeConfig `gorm:"type:jsonb" json:"theme_config"`
	Visibility  string       `gorm:"size:16;not null;default:public" json:"visibility"`
	ViewCount   int64        `gorm:"not null;default:0" json:"view_count"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	Links []Link `gorm:"foreignKey:LandingPageID" json:"links,omitempty"`
}
