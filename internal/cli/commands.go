package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/semantria/semantria-go/internal/common/apperrors"
	"github.com/semantria/semantria-go/internal/common/logtrace"
	"github.com/semantria/semantria-go/pkg/semantria"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
	formatFlag string
	logLevel   string
)

// ErrAlreadyHandled is returned by commands that printed their own error.
var ErrAlreadyHandled = errors.New("already handled")

// handledError marks err as printed while keeping it for the exit code.
type handledError struct {
	err error
}

func (e *handledError) Error() string   { return e.err.Error() }
func (e *handledError) Unwrap() []error { return []error{ErrAlreadyHandled, e.err} }

func alreadyHandled(err error) error {
	return &handledError{err: err}
}

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var keyLabel = color.New(color.FgCyan)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "semantria [command] [flags]",
	Short: "Semantria CLI - submit text for analysis and manage configurations",
	Long: `Semantria CLI is a command line client for the Semantria text analytics API.
It queues documents and collections, retrieves their analysis and manages
configurations and their user data from YAML files.

Examples:
  # Point the CLI at the API and store an API key
  semantria config --key KEY --secret SECRET

  # List configurations
  semantria list configurations

  # Create queries from a file
  semantria create -f queries.yaml

  # Queue a document and fetch the result
  semantria document queue --id D1 --text "it works"
  semantria document processed`,
	PersistentPreRunE: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "", "", "Wire format override: json or xml")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "warn", "Log level")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil {
		code := exitCode(err)
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(code)
		}
		if jsonOutput {
			out := map[string]any{"error": err.Error()}
			if status := apperrors.StatusCode(err); status != 0 {
				out["status"] = status
			}
			printJSON(os.Stdout, out)
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}

// Exit codes beyond the generic failure.
const (
	exitFailure   = 1
	exitAuth      = 3
	exitRejected  = 4
	exitService   = 5
	exitTransport = 6
)

// exitCode maps err to the process exit code by error class and HTTP status.
func exitCode(err error) int {
	status := apperrors.StatusCode(err)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, semantria.ErrAuthentication),
		status == http.StatusUnauthorized, status == http.StatusForbidden:
		return exitAuth
	case errors.Is(err, semantria.ErrTransport):
		return exitTransport
	case status >= 500:
		return exitService
	case status >= 400:
		return exitRejected
	}
	return exitFailure
}

// preRunHandlePersistents configures logging and loads the configuration
// for every command that talks to the service.
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", logLevel)
	}
	logtrace.InitLogger(logtrace.LoggerOptions{Level: level, Console: true, Out: cmd.ErrOrStderr()})

	if configFile == "" {
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}

	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "config", "version", "login", "logout":
			return nil
		}
	}
	if err := LoadConfig(configFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found, configure the CLI with \"semantria config\" first", configFile)
		}
		return err
	}
	return nil
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of the semantria CLI",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := GetDefaultConfigPath()
			if err != nil {
				configPath = "unknown"
			}

			if jsonOutput {
				printJSON(cmd.OutOrStdout(), map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "semantria CLI %s\n", getCLIVersion())
				fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", configPath)
			}
		},
	}
}

// printJSON prints data as indented JSON
func printJSON(w io.Writer, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(w, string(jsonData))
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.4.2"
}
