package config

import (
	"github.com/Veraticus/financas/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or FINANCAS_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. A refresh token cached by `financas sheets auth`
// 4. Default values
//
// The result is not validated; `sheets auth` needs it before any token exists.
func LoadSheetsConfig() sheets.Config {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = viper.GetString("sheets.service_account_path")
	config.ClientID = viper.GetString("sheets.client_id")
	config.ClientSecret = viper.GetString("sheets.client_secret")
	config.RefreshToken = viper.GetString("sheets.refresh_token")
	config.SpreadsheetID = viper.GetString("sheets.spreadsheet_id")
	config.SpreadsheetName = viper.GetString("sheets.spreadsheet_name")
	config.TokenFile = ExpandPath(viper.GetString("sheets.token_file"))
	if v := viper.GetString("sheets.timezone"); v != "" {
		config.TimeZone = v
	}
	if v := viper.GetInt("sheets.batch_size"); v > 0 {
		config.BatchSize = v
	}

	config.ApplyEnv()
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	if config.TokenFile == "" {
		config.TokenFile = DefaultTokenFile()
	}

	if config.RefreshToken == "" && config.ServiceAccountPath == "" {
		if token, err := sheets.LoadToken(config.TokenFile); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}

	return config
}
