// Package config loads tally's configuration from a YAML file and
// TALLY_* environment overrides. Core packages never read the
// environment themselves — they take these values as plain parameters.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all tally configuration.
type Config struct {
	AppStore AppStoreConfig
	Store    StoreConfig
	Log      LogConfig
}

// AppStoreConfig holds the reporting API credentials and fetch settings.
type AppStoreConfig struct {
	KeyID          string
	IssuerID       string
	PrivateKeyPath string
	VendorNumber   string
	LookbackDays   int
	Timeout        time.Duration
}

// StoreConfig holds the persistent store settings.
type StoreConfig struct {
	Backend         string // "sheets" or "csv"
	CredentialsPath string
	SpreadsheetID   string
	SheetName       string
	Path            string // csv backend file path
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// Load reads config.yaml from the working directory or ~/.tally, applies
// TALLY_* environment overrides (TALLY_APPSTORE_KEY_ID, TALLY_STORE_BACKEND,
// ...), and fills in defaults. A missing config file is fine; env and
// defaults carry the run.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.tally")

	v.SetEnvPrefix("TALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("appstore.private_key_path", "AuthKey.p8")
	v.SetDefault("appstore.lookback_days", 1)
	v.SetDefault("appstore.timeout", "30s")
	v.SetDefault("store.backend", "sheets")
	v.SetDefault("store.credentials_path", "credentials.json")
	v.SetDefault("store.sheet_name", "Daily Downloads")
	v.SetDefault("store.path", "downloads.csv")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	return Config{
		AppStore: AppStoreConfig{
			KeyID:          v.GetString("appstore.key_id"),
			IssuerID:       v.GetString("appstore.issuer_id"),
			PrivateKeyPath: v.GetString("appstore.private_key_path"),
			VendorNumber:   v.GetString("appstore.vendor_number"),
			LookbackDays:   v.GetInt("appstore.lookback_days"),
			Timeout:        v.GetDuration("appstore.timeout"),
		},
		Store: StoreConfig{
			Backend:         v.GetString("store.backend"),
			CredentialsPath: v.GetString("store.credentials_path"),
			SpreadsheetID:   v.GetString("store.spreadsheet_id"),
			SheetName:       v.GetString("store.sheet_name"),
			Path:            v.GetString("store.path"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			JSON:  v.GetBool("log.json"),
		},
	}, nil
}

// Validate checks the fields every run needs regardless of backend.
func (c Config) Validate() error {
	var missing []string
	if c.AppStore.KeyID == "" {
		missing = append(missing, "appstore.key_id")
	}
	if c.AppStore.IssuerID == "" {
		missing = append(missing, "appstore.issuer_id")
	}
	if c.AppStore.VendorNumber == "" {
		missing = append(missing, "appstore.vendor_number")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
