// Package sheets pushes ledger tables to a Google Sheets spreadsheet.
package sheets

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/financas/internal/common"
)

// DefaultSpreadsheetName is used when a new spreadsheet has to be created.
const DefaultSpreadsheetName = "Finanças"

// AuthMethod is how the writer authenticates against the Sheets API.
type AuthMethod string

// Auth methods.
const (
	AuthNone           AuthMethod = ""
	AuthServiceAccount AuthMethod = "service_account"
	AuthOAuth2         AuthMethod = "oauth2"
	AuthAmbiguous      AuthMethod = "ambiguous"
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	TokenFile          string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns the defaults for a pt-BR spreadsheet.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		SpreadsheetName:  DefaultSpreadsheetName,
		TimeZone:         "America/Sao_Paulo",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// envVars maps each GOOGLE_SHEETS_* variable to the field it fills.
func (c *Config) envVars() map[string]*string {
	return map[string]*string{
		"GOOGLE_SHEETS_CLIENT_ID":            &c.ClientID,
		"GOOGLE_SHEETS_CLIENT_SECRET":        &c.ClientSecret,
		"GOOGLE_SHEETS_REFRESH_TOKEN":        &c.RefreshToken,
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH": &c.ServiceAccountPath,
		"GOOGLE_SHEETS_SPREADSHEET_ID":       &c.SpreadsheetID,
		"GOOGLE_SHEETS_SPREADSHEET_NAME":     &c.SpreadsheetName,
	}
}

// ApplyEnv fills fields that are still empty from the GOOGLE_SHEETS_*
// environment variables. Fields already set win.
func (c *Config) ApplyEnv() {
	for env, field := range c.envVars() {
		if *field == "" {
			*field = os.Getenv(env)
		}
	}
	if c.SpreadsheetName == "" {
		c.SpreadsheetName = DefaultSpreadsheetName
	}
}

// Auth reports which credentials the config carries.
func (c *Config) Auth() AuthMethod {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	switch {
	case hasOAuth && hasServiceAccount:
		return AuthAmbiguous
	case hasServiceAccount:
		return AuthServiceAccount
	case hasOAuth:
		return AuthOAuth2
	}
	return AuthNone
}

// Validate checks that exactly one credential set is configured and that
// the tuning knobs are sane.
func (c *Config) Validate() error {
	switch c.Auth() {
	case AuthNone:
		return fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	case AuthAmbiguous:
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	}

	switch {
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	case c.RetryAttempts < 0:
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	case c.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
