package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/financas/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FINANCAS_TEST_DIR", "/srv/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/ledger.db", filepath.Join(home, "ledger.db")},
		{"$FINANCAS_TEST_DIR/ledger.db", "/srv/data/ledger.db"},
		{"/abs/ledger.db", "/abs/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	assert.Equal(t, "financas.db", filepath.Base(DefaultDBPath()))
	assert.Equal(t, Dir(), filepath.Dir(DefaultTokenFile()))
}

func TestLoadSheetsConfig_Precedence(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	viper.Set("sheets.client_id", "from-viper")
	viper.Set("sheets.batch_size", 50)
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "from-env")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")

	cfg := LoadSheetsConfig()

	assert.Equal(t, "from-viper", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, "refresh", cfg.RefreshToken)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadSheetsConfig_CachedToken(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	tokenFile := filepath.Join(t.TempDir(), "token.json")
	data, err := json.Marshal(map[string]string{"refresh_token": "cached"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(tokenFile, data, 0o600))

	viper.Set("sheets.token_file", tokenFile)
	viper.Set("sheets.client_id", "id")
	viper.Set("sheets.client_secret", "secret")
	viper.Set("sheets.spreadsheet_name", "Casa")

	cfg := LoadSheetsConfig()

	assert.Equal(t, "cached", cfg.RefreshToken)
	assert.Equal(t, "Casa", cfg.SpreadsheetName)
	assert.Equal(t, tokenFile, cfg.TokenFile)
}

func TestLoadSheetsConfig_MissingCredentials(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)
	viper.Set("sheets.token_file", filepath.Join(t.TempDir(), "absent.json"))

	cfg := LoadSheetsConfig()

	assert.Error(t, cfg.Validate())
}
