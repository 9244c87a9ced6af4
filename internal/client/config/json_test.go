package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseJson_Overlay(t *testing.T) {
	base := Config{
		ServerURL:           "http://defaults:1234",
		RequestTimeout:      7 * time.Second,
		OnlineCheckInterval: 42 * time.Second,
		SessionPath:         "default.db",
	}

	cases := []struct {
		name string
		body string
		want Config
	}{
		{
			name: "partial file keeps absent fields",
			body: `{"server_url":"https://auth.example","online_check_interval":"10s"}`,
			want: Config{
				ServerURL:           "https://auth.example",
				RequestTimeout:      7 * time.Second,
				OnlineCheckInterval: 10 * time.Second,
				SessionPath:         "default.db",
			},
		},
		{
			name: "session path and nanosecond timeout",
			body: `{"session_path":"/var/lib/weynak/s.db","request_timeout":2000000000}`,
			want: Config{
				ServerURL:           "http://defaults:1234",
				RequestTimeout:      2 * time.Second,
				OnlineCheckInterval: 42 * time.Second,
				SessionPath:         "/var/lib/weynak/s.db",
			},
		},
		{
			name: "empty object changes nothing",
			body: `{}`,
			want: base,
		},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			os.Args = []string{"weynak", "--config", writeConfigFile(t, tc.body)}

			cfg := base
			parseJson(&cfg)

			assert.Equal(t, tc.want, cfg)
		})
	}
}

func Test_parseJson_NoFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"weynak", "-a", "http://other"}

	cfg := Config{ServerURL: "http://defaults:1234"}
	parseJson(&cfg)

	assert.Equal(t, "http://defaults:1234", cfg.ServerURL)
}

func Test_parseJson_InvalidPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"weynak", "-c", writeConfigFile(t, `{ this is not valid json`)}

	require.Panics(t, func() { parseJson(&Config{}) })
}
