package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	infraprom "github.com/linkdeck/linkdeck/internal/infra/prometheus"
	"go.uber.org/zap"
)

const defaultGeoTimeout = 2 * time.Second

// Location is the best-effort geolocation of a click. All fields are nil when
// the lookup fails, times out or is skipped.
type Location struct {
	Country     *string
	CountryCode *string
	City        *string
	Region      *string
	Timezone    *string
	Latitude    *float64
	Longitude   *float64
}

// GeolocationService resolves client IPs against an ip-api.com style
// endpoint. Lookups are strictly best-effort: any failure returns an empty
// Location and private or loopback addresses are never sent out.
type GeolocationService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewGeolocationService builds a lookup client. timeout <= 0 falls back to a
// conservative default so a slow upstream cannot pile up consumer goroutines.
func NewGeolocationService(baseURL string, timeout time.Duration, logger *zap.Logger) *GeolocationService {
	if timeout <= 0 {
		timeout = defaultGeoTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeolocationService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type geoResponse struct {
	Status      string  `json:"status"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	City        string  `json:"city"`
	RegionName  string  `json:"regionName"`
	Timezone    string  `json:"timezone"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Lookup resolves ip to a Location. Never returns an error; failures are
// logged and produce an empty Location.
func (s *GeolocationService) Lookup(ctx context.Context, ip string) Location {
	if s.baseURL == "" {
		return Location{}
	}
	if isPrivateIP(ip) {
		infraprom.GeoLookups.WithLabelValues("skipped").Inc()
		return Location{}
	}

	endpoint := fmt.Sprintf("%s/%s?fields=status,country,countryCode,city,regionName,timezone,lat,lon",
		s.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		s.logger.Debug("geolocation request build failed", zap.Error(err))
		infraprom.GeoLookups.WithLabelValues("miss").Inc()
		return Location{}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("geolocation lookup failed", zap.String("ip", ip), zap.Error(err))
		infraprom.GeoLookups.WithLabelValues("miss").Inc()
		return Location{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		infraprom.GeoLookups.WithLabelValues("miss").Inc()
		return Location{}
	}

	var data geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || data.Status != "success" {
		infraprom.GeoLookups.WithLabelValues("miss").Inc()
		return Location{}
	}

	infraprom.GeoLookups.WithLabelValues("hit").Inc()
	loc := Location{
		Latitude:  &data.Lat,
		Longitude: &data.Lon,
	}
	if data.Country != "" {
		loc.Country = &data.Country
	}
	if data.CountryCode != "" {
		loc.CountryCode = &data.CountryCode
	}
	if data.City != "" {
		loc.City = &data.City
	}
	if data.RegionName != "" {
		loc.Region = &data.RegionName
	}
	if data.Timezone != "" {
		loc.Timezone = &data.Timezone
	}
	return loc
}

// isPrivateIP reports whether ip is loopback, link-local or inside the
// RFC 1918 private ranges. Unparseable addresses count as private so that
// junk never reaches the upstream API.
func isPrivateIP(ip string) bool {
	if ip == "" || ip == "localhost" {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast()
}
