package geoip

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"
	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"visitlens/internal/config"
	"visitlens/internal/records"
)

var (
	geoDB  *geoip2.Reader
	once   sync.Once
	mu     sync.RWMutex
	logger *slog.Logger

	countryQuery = gountries.New()
	titleCaser   = cases.Title(language.English)
)

// InitLogger sets the logger for the geoip package.
func InitLogger(l *slog.Logger) {
	logger = l
}

// InitGeoDB initializes the GeoLite2 database.
// Returns nil if the database is not configured or not found (GeoIP is optional).
func InitGeoDB() *geoip2.Reader {
	cfg := config.GetConfig()
	if cfg.GeoDBPath == "" {
		if logger != nil {
			logger.Debug("GeoIP database path not configured - GeoIP features disabled")
		}
		return nil
	}

	if _, err := os.Stat(cfg.GeoDBPath); os.IsNotExist(err) {
		if logger != nil {
			logger.Info("GeoLite2 database not found - GeoIP features disabled",
				slog.String("path", cfg.GeoDBPath),
				slog.String("hint", "Download from https://www.maxmind.com/en/geolite2/signup"))
		}
		return nil
	} else if err != nil {
		if logger != nil {
			logger.Warn("Error checking GeoLite2 database file",
				slog.String("path", cfg.GeoDBPath),
				slog.Any("error", err))
		}
		return nil
	}

	db, err := geoip2.Open(cfg.GeoDBPath)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open GeoLite2 database",
				slog.String("path", cfg.GeoDBPath),
				slog.Any("error", err))
		}
		return nil
	}

	if logger != nil {
		logger.Info("GeoLite2 database initialized successfully",
			slog.String("path", cfg.GeoDBPath))
	}
	return db
}

// GetGeoDB returns the GeoLite2 database reader, initializing it if necessary.
func GetGeoDB() *geoip2.Reader {
	once.Do(func() {
		mu.Lock()
		geoDB = InitGeoDB()
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return geoDB
}

// ReloadGeoDB reloads the GeoLite2 database from disk.
// Call this after downloading a new database file.
func ReloadGeoDB() {
	mu.Lock()
	defer mu.Unlock()

	if geoDB != nil {
		geoDB.Close()
	}
	geoDB = InitGeoDB()

	if geoDB != nil && logger != nil {
		logger.Info("GeoLite2 database reloaded successfully")
	}
}

// Locate resolves an IP address to a display country name and city.
// Falls back to Unknown for both when the database is unavailable or the
// address cannot be resolved.
func Locate(ip string) (country, city string) {
	country, city = records.Unknown, records.Unknown

	db := GetGeoDB()
	if db == nil {
		return country, city
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return country, city
	}

	record, err := db.City(parsed)
	if err != nil {
		return country, city
	}

	if code := record.Country.IsoCode; code != "" {
		country = CountryName(code)
	}
	if name := record.City.Names["en"]; name != "" {
		city = titleCaser.String(name)
	}
	return country, city
}

// CountryName converts an ISO alpha-2 code into a display country name.
// Unrecognized codes are returned as-is.
func CountryName(code string) string {
	found, err := countryQuery.FindCountryByAlpha(code)
	if err != nil {
		return code
	}
	return found.Name.Common
}
