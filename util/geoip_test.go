package util

import (
	"testing"
	"time"

	cache "github.com/patrickmn/go-cache"
)

func TestInitGeoIP_NoPathIsNoop(t *testing.T) {
	t.Setenv("GEOIP_DB_PATH", "")
	if err := InitGeoIP(""); err != nil {
		t.Fatalf("expected no error without a database path, got %v", err)
	}
}

func TestInitGeoIP_MissingFile(t *testing.T) {
	if err := InitGeoIP("/nonexistent/geoip.mmdb"); err == nil {
		t.Fatal("expected error for missing database file")
	}
}

func TestGetIPLocation_PrivateAndEmpty(t *testing.T) {
	for _, ip := range []string{"", "127.0.0.1", "::1", "10.1.2.3", "192.168.1.5"} {
		city, country := GetIPLocation(ip)
		if city != "" || country != "" {
			t.Errorf("expected empty location for %q, got %s/%s", ip, city, country)
		}
	}
}

func TestGetIPLocation_CacheHitWithoutDB(t *testing.T) {
	geoipCache = cache.New(time.Minute, time.Minute)
	t.Cleanup(func() { geoipCache = nil })
	geoipCache.Set("8.8.8.8", []string{"Mountain View", "United States"}, cache.DefaultExpiration)

	city, country := GetIPLocation("8.8.8.8")
	if city != "Mountain View" || country != "United States" {
		t.Errorf("expected cached location, got %s/%s", city, country)
	}
}
