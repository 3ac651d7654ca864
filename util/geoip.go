package util

import (
	"net"
	"os"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipDB    *geoip2.Reader
	geoipCache *cache.Cache
)

// InitGeoIP initializes the local GeoIP2 database reader and an in-memory cache.
// Provide the path to a GeoIP2/GeoLite2 .mmdb file via `dbPath`, or set
// GEOIP_DB_PATH. If no path is configured or the file cannot be opened,
// initialization is a no-op and lookups return empty results.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipDB = r
	// Cache entries for 24h, purge every hour
	geoipCache = cache.New(24*time.Hour, 1*time.Hour)
	return nil
}

// CloseGeoIP closes the GeoIP DB if opened.
func CloseGeoIP() {
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
}

func isPrivateOrLocal(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" ||
		(len(ip) >= 4 && ip[:4] == "10.") ||
		(len(ip) >= 8 && ip[:8] == "192.168") ||
		(len(ip) >= 2 && ip[:2] == "::")
}

// GetIPLocation resolves an IP to (city, country) using the local GeoIP
// database with a 24h in-memory cache. Returns empty strings when the IP
// is private, unparsable, or no database is loaded.
func GetIPLocation(ip string) (string, string) {
	if ip == "" || isPrivateOrLocal(ip) {
		return "", ""
	}

	if geoipCache != nil {
		if v, ok := geoipCache.Get(ip); ok {
			if arr, ok := v.([]string); ok && len(arr) == 2 {
				return arr[0], arr[1]
			}
		}
	}

	if geoipDB == nil {
		return "", ""
	}

	netip := net.ParseIP(ip)
	if netip == nil {
		return "", ""
	}

	rec, err := geoipDB.City(netip)
	if err != nil {
		return "", ""
	}

	city := ""
	country := ""
	if rec != nil {
		city = rec.City.Names["en"]
		country = rec.Country.Names["en"]
	}

	if geoipCache != nil {
		geoipCache.Set(ip, []string{city, country}, cache.DefaultExpiration)
	}

	return city, country
}
