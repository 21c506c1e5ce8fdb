package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// appFS backs every file the CLI reads or writes.
var appFS = afero.NewOsFs()

// Config holds the API endpoints and credentials used by every command.
// Either the key pair or the username/password pair must be set.
type Config struct {
	Host         string `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	AuthHost     string `json:"auth_host,omitempty" yaml:"auth_host,omitempty" toml:"auth_host,omitempty"`
	Format       string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	Compression  bool   `json:"compression,omitempty" yaml:"compression,omitempty" toml:"compression,omitempty"`
	APIVersion   string `json:"api_version,omitempty" yaml:"api_version,omitempty" toml:"api_version,omitempty"`
	AppName      string `json:"app_name,omitempty" yaml:"app_name,omitempty" toml:"app_name,omitempty"`
	APIKey       string `json:"api_key,omitempty" yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	APISecret    string `json:"api_secret,omitempty" yaml:"api_secret,omitempty" toml:"api_secret,omitempty"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty" toml:"username,omitempty"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty" toml:"password,omitempty"`
	ReuseSession bool   `json:"reuse_session,omitempty" yaml:"reuse_session,omitempty" toml:"reuse_session,omitempty"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/semantria on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "semantria", DefaultConfigFile), nil
}

func isTOML(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".toml")
}

// ReadConfig parses file as YAML, or TOML when it has a .toml extension.
func ReadConfig(file string) (*Config, error) {
	data, err := afero.ReadFile(appFS, file)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config file")
	}
	var c Config
	if isTOML(file) {
		if _, err := toml.Decode(string(data), &c); err != nil {
			return nil, errors.Wrap(err, "unable to parse config file")
		}
	} else if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "unable to parse config file")
	}
	return &c, nil
}

// LoadConfig reads file, applies environment overrides and validates the
// result before making it the active configuration.
func LoadConfig(file string) error {
	c, err := ReadConfig(file)
	if err != nil {
		return err
	}
	c.applyEnv()
	if err := c.ValidateConfig(); err != nil {
		return err
	}
	config = c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// applyEnv overrides the key pair with SEMANTRIA_KEY and SEMANTRIA_SECRET
// from the environment or a .env file in the working directory.
func (cfg *Config) applyEnv() {
	_ = godotenv.Load()
	if v := os.Getenv("SEMANTRIA_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("SEMANTRIA_SECRET"); v != "" {
		cfg.APISecret = v
	}
}

// ValidateConfig checks that a usable credential pair and format are set.
func (cfg *Config) ValidateConfig() error {
	if cfg.Format != "" {
		if _, err := serializer.ParseFormat(cfg.Format); err != nil {
			return err
		}
	}
	hasKey := cfg.APIKey != "" || cfg.APISecret != ""
	hasLogin := cfg.Username != "" || cfg.Password != ""
	switch {
	case hasKey && (cfg.APIKey == "" || cfg.APISecret == ""):
		return errors.New("api_key and api_secret must be set together")
	case hasLogin && (cfg.Username == "" || cfg.Password == ""):
		return errors.New("username and password must be set together")
	case !hasKey && !hasLogin:
		return errors.New("no credentials configured, set an api key or a username and password")
	}
	return nil
}

// WriteConfig writes the configuration to file, in TOML when the file has a
// .toml extension.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	if err := appFS.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return errors.Wrap(err, "unable to create config directory")
	}

	var data []byte
	if isTOML(file) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return errors.Wrap(err, "unable to generate configuration")
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return errors.Wrap(err, "unable to generate configuration")
		}
	}

	if err := afero.WriteFile(appFS, file, data, os.FileMode(0600)); err != nil {
		return errors.Wrap(err, "unable to write config file")
	}
	return nil
}

// redacted returns a copy safe for display.
func (cfg Config) redacted() Config {
	if cfg.APISecret != "" {
		cfg.APISecret = "********"
	}
	if cfg.Password != "" {
		cfg.Password = "********"
	}
	return cfg
}

// newConfigCmd creates the config command, which merges the given flags into
// the config file and prints the result.
func newConfigCmd() *cobra.Command {
	var c Config
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or update the CLI configuration",
		Long: `Create or update the CLI configuration file. Only the flags given are
changed; with no flags the current configuration is printed.

Examples:
  semantria config --key KEY --secret SECRET
  semantria config --host http://localhost:8678 --auth-host http://localhost:8678/auth
  semantria config --username me@example.com --password secret --reuse-session`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := ReadConfig(configFile)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				existing = &Config{}
			}

			flags := cmd.Flags()
			changed := false
			set := func(name string, dst *string, v string) {
				if flags.Changed(name) {
					*dst = v
					changed = true
				}
			}
			set("host", &existing.Host, c.Host)
			set("auth-host", &existing.AuthHost, c.AuthHost)
			set("api-version", &existing.APIVersion, c.APIVersion)
			set("app-name", &existing.AppName, c.AppName)
			set("key", &existing.APIKey, c.APIKey)
			set("secret", &existing.APISecret, c.APISecret)
			set("username", &existing.Username, c.Username)
			set("password", &existing.Password, c.Password)
			set("format", &existing.Format, formatFlag)
			if flags.Changed("compression") {
				existing.Compression = c.Compression
				changed = true
			}
			if flags.Changed("reuse-session") {
				existing.ReuseSession = c.ReuseSession
				changed = true
			}

			if changed {
				if existing.Format != "" {
					if _, err := serializer.ParseFormat(existing.Format); err != nil {
						return err
					}
				}
				if err := existing.WriteConfig(configFile); err != nil {
					return err
				}
			}

			shown := existing.redacted()
			if jsonOutput {
				printJSON(cmd.OutOrStdout(), shown)
				return nil
			}
			out, err := yaml.Marshal(shown)
			if err != nil {
				return errors.Wrap(err, "unable to render configuration")
			}
			keyLabel.Fprintf(cmd.OutOrStdout(), "# %s\n", configFile)
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&c.Host, "host", "", "API host URL")
	cmd.Flags().StringVar(&c.AuthHost, "auth-host", "", "Authorization endpoint URL")
	cmd.Flags().StringVar(&c.APIVersion, "api-version", "", "API version")
	cmd.Flags().StringVar(&c.AppName, "app-name", "", "Application name sent with every request")
	cmd.Flags().StringVar(&c.APIKey, "key", "", "API consumer key")
	cmd.Flags().StringVar(&c.APISecret, "secret", "", "API consumer secret")
	cmd.Flags().StringVar(&c.Username, "username", "", "Account user name (email)")
	cmd.Flags().StringVar(&c.Password, "password", "", "Account password")
	cmd.Flags().BoolVar(&c.Compression, "compression", false, "Request compressed responses")
	cmd.Flags().BoolVar(&c.ReuseSession, "reuse-session", false, "Cache and reuse the login session")
	return cmd
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
