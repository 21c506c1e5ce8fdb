package cli

import (
	"testing"

	"github.com/semantria/semantria-go/pkg/semantria/auth"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	useMemFS(t)
	t.Setenv("SEMANTRIA_KEY", "")
	t.Setenv("SEMANTRIA_SECRET", "")

	want := Config{
		Host:         "http://localhost:8678",
		AuthHost:     "http://localhost:8678/auth",
		Format:       "xml",
		Compression:  true,
		APIVersion:   "4.2",
		Username:     "alice@example.com",
		Password:     "pw",
		ReuseSession: true,
	}
	for _, file := range []string{"/cfg/config.yaml", "/cfg/config.toml"} {
		t.Run(file, func(t *testing.T) {
			require.NoError(t, want.WriteConfig(file))
			got, err := ReadConfig(file)
			require.NoError(t, err)
			assert.Equal(t, want, *got)

			require.NoError(t, LoadConfig(file))
			assert.Equal(t, want, *GetConfig())
		})
	}

	data, err := afero.ReadFile(appFS, "/cfg/config.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `auth_host = "http://localhost:8678/auth"`)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	useMemFS(t)
	cfg := Config{Host: "http://localhost:8678", Username: "alice@example.com", Password: "pw"}
	require.NoError(t, cfg.WriteConfig("/cfg/config.yaml"))

	t.Setenv("SEMANTRIA_KEY", "env-key")
	t.Setenv("SEMANTRIA_SECRET", "env-secret")
	require.NoError(t, LoadConfig("/cfg/config.yaml"))
	assert.Equal(t, auth.APIKey{Key: "env-key", Secret: "env-secret"}, GetConfig().credentials())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"api key", Config{APIKey: "k", APISecret: "s"}, ""},
		{"login", Config{Username: "a@b.c", Password: "p"}, ""},
		{"no credentials", Config{}, "no credentials configured"},
		{"key without secret", Config{APIKey: "k"}, "api_key and api_secret must be set together"},
		{"user without password", Config{Username: "a@b.c"}, "username and password must be set together"},
		{"bad format", Config{APIKey: "k", APISecret: "s", Format: "yaml"}, "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateConfig()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSessionOptions(t *testing.T) {
	formatFlag = ""
	t.Cleanup(func() { formatFlag = "" })

	cfg := &Config{Host: "https://api.example.com", APIKey: "k", APISecret: "s", Format: "json"}
	config = cfg
	s, err := newSession()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", s.Host())
	assert.Equal(t, "json", string(s.Format()))
	assert.Equal(t, auth.ModeAPIKey, s.Mode())

	formatFlag = "xml"
	s, err = newSession()
	require.NoError(t, err)
	assert.Equal(t, "xml", string(s.Format()))

	formatFlag = "csv"
	_, err = newSession()
	assert.Error(t, err)

	formatFlag = ""
	config = &Config{Username: "alice@example.com", Password: "pw"}
	s, err = newSession()
	require.NoError(t, err)
	assert.Equal(t, auth.ModeSession, s.Mode())
}
