package model

import "time"

// LinkClick is one append-only record of a short-link resolution.
// Rows are written by the click consumer and never updated; they are removed
// only when the owning link is deleted.
type LinkClick struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	LinkID      string    `gorm:"size:36;not null;index" json:"link_id"`
	UserID      *string   `gorm:"size:36" json:"user_id"`
	IPAddress   string    `gorm:"size:45" json:"ip_address"`
	UserAgent   string    `gorm:"type:text" json:"user_agent"`
	Referrer    *string   `gorm:"type:text" json:"referrer"`
	DeviceType  string    `gorm:"size:16" json:"device_type"`
	Browser     string    `gorm:"size:32" json:"browser"`
	OS          string    `gorm:"size:32" json:"os"`
	Country     *string   `gorm:"size:100" json:"country"`
	CountryCode *string   `gorm:"size:8" json:"country_code"`
	City        *string   `gorm:"size:100" json:"city"`
	Region      *string   `gorm:"size:100" json:"region"`
	Timezone    *string   `gorm:"size:64" json:"timezone"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	ClickedAt   time.Time `gorm:"not null;index" json:"clicked_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ClickEvent is the wire form published to JetStream on the redirect hot
// path. Geolocation fields are filled in later by the consumer.
type ClickEvent struct {
	ID         string    `json:"id"`
	LinkID     string    `json:"link_id"`
	UserID     *string   `json:"user_id,omitempty"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	Referrer   string    `json:"referrer,omitempty"`
	DeviceType string    `json:"device_type"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	ClickStreamName     = "CLICKS"
	ClickStreamSubject  = "clicks.events"
	ClickConsumerName   = "click-recorder"
	ClickStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
