package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGeolocation_PrivateIPSkipsLookup(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	geo := NewGeolocationService(srv.URL, time.Second, nil)

	for _, ip := range []string{"127.0.0.1", "::1", "10.1.2.3", "172.16.0.1", "192.168.1.1", "localhost", "", "garbage"} {
		loc := geo.Lookup(context.Background(), ip)
		if loc.Country != nil {
			t.Errorf("ip %q: expected empty location", ip)
		}
	}
	if called {
		t.Fatal("private addresses must never reach the upstream API")
	}
}

func TestGeolocation_SuccessfulLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "success",
			"country": "Germany",
			"countryCode": "DE",
			"city": "Berlin",
			"regionName": "Berlin",
			"timezone": "Europe/Berlin",
			"lat": 52.52,
			"lon": 13.405
		}`))
	}))
	defer srv.Close()

	geo := NewGeolocationService(srv.URL, time.Second, nil)
	loc := geo.Lookup(context.Background(), "93.184.216.34")

	if loc.Country == nil || *loc.Country != "Germany" {
		t.Fatalf("expected country Germany, got %v", loc.Country)
	}
	if loc.City == nil || *loc.City != "Berlin" {
		t.Fatalf("expected city Berlin, got %v", loc.City)
	}
	if loc.Latitude == nil || *loc.Latitude != 52.52 {
		t.Fatalf("expected latitude, got %v", loc.Latitude)
	}
}

func TestGeolocation_FailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	geo := NewGeolocationService(srv.URL, time.Second, nil)
	loc := geo.Lookup(context.Background(), "93.184.216.34")
	if loc.Country != nil || loc.City != nil || loc.Latitude != nil {
		t.Fatal("failed lookup must leave all fields nil")
	}
}

func TestGeolocation_UpstreamFailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "fail"}`))
	}))
	defer srv.Close()

	geo := NewGeolocationService(srv.URL, time.Second, nil)
	loc := geo.Lookup(context.Background(), "93.184.216.34")
	if loc.Country != nil {
		t.Fatal("fail status must leave all fields nil")
	}
}
