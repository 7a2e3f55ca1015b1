package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceAccount() Config {
	c := DefaultConfig()
	c.ServiceAccountPath = "/etc/tally/key.json"
	return c
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		errMsg string
		modify func(c *Config)
	}{
		{name: "service account"},
		{
			name: "oauth",
			modify: func(c *Config) {
				c.ServiceAccountPath = ""
				c.ClientID, c.ClientSecret, c.RefreshToken = "client", "secret", "token"
			},
		},
		{
			name: "partial oauth credentials",
			modify: func(c *Config) {
				c.ServiceAccountPath = ""
				c.ClientID, c.RefreshToken = "client", "token"
			},
			errMsg: "no authentication method configured",
		},
		{
			name: "both auth methods",
			modify: func(c *Config) {
				c.ClientID, c.ClientSecret, c.RefreshToken = "client", "secret", "token"
			},
			errMsg: "multiple authentication methods",
		},
		{name: "zero batch size", modify: func(c *Config) { c.BatchSize = 0 }, errMsg: "batch size must be positive"},
		{name: "negative retry attempts", modify: func(c *Config) { c.RetryAttempts = -1 }, errMsg: "retry attempts cannot be negative"},
		{name: "negative retry delay", modify: func(c *Config) { c.RetryDelay = -time.Second }, errMsg: "retry delay cannot be negative"},
		{name: "no retries", modify: func(c *Config) { c.RetryAttempts, c.RetryDelay = 0, 0 }},
		{name: "account time zone", modify: func(c *Config) { c.TimeZone = "" }},
		{name: "australian station", modify: func(c *Config) { c.TimeZone = "Australia/Perth" }},
		{name: "made up time zone", modify: func(c *Config) { c.TimeZone = "Canterbury/Plains" }, errMsg: "unknown time zone"},
		{name: "local is not a zone name", modify: func(c *Config) { c.TimeZone = "Local" }, errMsg: "unknown time zone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := serviceAccount()
			if tt.modify != nil {
				tt.modify(&c)
			}

			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	keys := []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
		"GOOGLE_SHEETS_TIME_ZONE",
	}

	tests := []struct {
		envVars map[string]string
		check   func(t *testing.T, c *Config)
		name    string
		wantErr bool
	}{
		{
			name: "oauth credentials",
			envVars: map[string]string{
				"GOOGLE_SHEETS_CLIENT_ID":        "client",
				"GOOGLE_SHEETS_CLIENT_SECRET":    "secret",
				"GOOGLE_SHEETS_REFRESH_TOKEN":    "token",
				"GOOGLE_SHEETS_SPREADSHEET_ID":   "sheet-1",
				"GOOGLE_SHEETS_SPREADSHEET_NAME": "Glenorchy Tallies",
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "client", c.ClientID)
				assert.Equal(t, "secret", c.ClientSecret)
				assert.Equal(t, "token", c.RefreshToken)
				assert.Equal(t, "sheet-1", c.SpreadsheetID)
				assert.Equal(t, "Glenorchy Tallies", c.SpreadsheetName)
				assert.Equal(t, "Pacific/Auckland", c.TimeZone)
			},
		},
		{
			name: "service account in another time zone",
			envVars: map[string]string{
				"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH": "/etc/tally/key.json",
				"GOOGLE_SHEETS_TIME_ZONE":            "Australia/Perth",
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "/etc/tally/key.json", c.ServiceAccountPath)
				assert.Equal(t, DefaultSpreadsheetName, c.SpreadsheetName)
				assert.Equal(t, "Australia/Perth", c.TimeZone)
			},
		},
		{
			name:    "refresh token missing",
			envVars: map[string]string{"GOOGLE_SHEETS_CLIENT_ID": "client", "GOOGLE_SHEETS_CLIENT_SECRET": "secret"},
			wantErr: true,
		},
		{name: "nothing set", envVars: map[string]string{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range keys {
				t.Setenv(key, "")
			}
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			c := DefaultConfig()
			err := c.LoadFromEnv()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, &c)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, DefaultSpreadsheetName, c.SpreadsheetName)
	assert.Equal(t, "Pacific/Auckland", c.TimeZone)
	assert.Equal(t, 1000, c.BatchSize)
	assert.Equal(t, 3, c.RetryAttempts)
	assert.Equal(t, time.Second, c.RetryDelay)
	assert.True(t, c.EnableFormatting)
}
