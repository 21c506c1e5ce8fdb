package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/semantria/semantria-go/pkg/semantria/auth"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login --username EMAIL --password PASSWORD",
		Short: "Log in with an account and cache the session",
		Long: `Log in with an account user name and password. The credentials are stored
in the config file in place of any API key and the negotiated session is
cached so later commands reuse it until it expires.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ReadConfig(configFile)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				cfg = &Config{}
			}
			cfg.APIKey, cfg.APISecret = "", ""
			cfg.Username, cfg.Password = username, password
			cfg.ReuseSession = true
			if err := cfg.ValidateConfig(); err != nil {
				return err
			}
			config = cfg

			s, err := newSession()
			if err != nil {
				return err
			}
			if _, err := s.GetStatus(cmd.Context()); err != nil {
				return errors.Wrap(err, "login failed")
			}
			if err := cfg.WriteConfig(configFile); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), map[string]any{"username": username, "logged_in": true},
				"Logged in as %s", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account user name (email)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.NewFileStore(appFS, "")
			if err := store.Clear(); err != nil {
				return errors.Wrap(err, "unable to remove session cache")
			}
			printOK(cmd.OutOrStdout(), map[string]any{"logged_out": true}, "Removed %s", store.Path())
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
}
