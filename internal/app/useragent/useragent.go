// Package useragent derives coarse device, browser and OS categories from a
// raw User-Agent header with ordered case-insensitive substring tests.
package useragent

import "strings"

// Device types.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// Classification is the coarse client fingerprint stored on a click record.
type Classification struct {
	DeviceType string
	Browser    string
	OS         string
}

// Classify runs all three category tests against the given user-agent string.
func Classify(userAgent string) Classification {
	ua := strings.ToLower(userAgent)
	return Classification{
		DeviceType: deviceType(ua),
		Browser:    browser(ua),
		OS:         operatingSystem(ua),
	}
}

func deviceType(ua string) string {
	switch {
	case strings.Contains(ua, "mobile"):
		return DeviceMobile
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

// browser checks Edge before Chrome: Edge user agents also contain "chrome",
// so reordering these tests changes the classification of every Edge client.
func browser(ua string) string {
	switch {
	case strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "safari"):
		return "Safari"
	case strings.Contains(ua, "opera"), strings.Contains(ua, "opr"):
		return "Opera"
	default:
		return "Other"
	}
}

func operatingSystem(ua string) string {
	switch {
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac os"):
		return "macOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "ios"), strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "iOS"
	default:
		return "Other"
	}
}
