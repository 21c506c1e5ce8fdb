package cli

import (
	"time"

	"github.com/pkg/errors"
	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the service status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := s.GetStatus(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "status", res)
		},
	}
}

func newSubscriptionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscription",
		Short: "Show the account subscription and its limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := s.GetSubscription(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "subscription", res)
		},
	}
}

// parseStatsTime accepts the API layout or RFC 3339.
func parseStatsTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(models.StatsTimeLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid time %q, expected %s", v, models.StatsTimeLayout)
	}
	return t.UTC(), nil
}

func newStatisticsCmd() *cobra.Command {
	var interval, from, to, group string
	cmd := &cobra.Command{
		Use:   "statistics [flags]",
		Short: "Show usage statistics",
		Long: `Show usage statistics for a predefined interval or a time range, optionally
grouped.

Examples:
  semantria statistics --interval week
  semantria statistics --from 2024-01-01T00:00:00Z --to 2024-02-01T00:00:00Z
  semantria statistics --interval month --group app`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := models.StatsQuery{Interval: models.StatsInterval(interval), Group: group}
			var err error
			if q.From, err = parseStatsTime(from); err != nil {
				return err
			}
			if q.To, err = parseStatsTime(to); err != nil {
				return err
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			if group != "" {
				res, err := s.GetGroupedStatistics(cmd.Context(), q)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), "statistics", res)
			}
			res, err := s.GetStatistics(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "statistics", res)
		},
	}
	cmd.Flags().StringVar(&interval, "interval", "", "Interval: hour, day, week, month or year")
	cmd.Flags().StringVar(&from, "from", "", "Range start")
	cmd.Flags().StringVar(&to, "to", "", "Range end")
	cmd.Flags().StringVar(&group, "group", "", "Grouping, e.g. app or language,app")
	return cmd
}

func newFeaturesCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "features [flags]",
		Short: "List the features supported per language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := s.GetSupportedFeatures(cmd.Context(), lang)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "features", res)
		},
	}
	cmd.Flags().StringVarP(&lang, "language", "l", "", "Only this language")
	return cmd
}

func init() {
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSubscriptionCmd())
	rootCmd.AddCommand(newStatisticsCmd())
	rootCmd.AddCommand(newFeaturesCmd())
}
