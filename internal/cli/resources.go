package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/semantria/semantria-go/pkg/semantria"
	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/spf13/cobra"
)

// applyStatus is the outcome of applying one resource document.
type applyStatus struct {
	Kind     string   `json:"kind"`
	ConfigID string   `json:"config_id,omitempty"`
	Count    int      `json:"count"`
	IDs      []string `json:"ids,omitempty"`
	Applied  bool     `json:"applied"`
	Error    string   `json:"error,omitempty"`
}

// applyFunc creates or updates the items of one document.
type applyFunc func(ctx context.Context, s *semantria.Session, k semantria.Kind, doc ResourceDoc) ([]string, error)

func applyKind[T models.Resource](update bool) applyFunc {
	return func(ctx context.Context, s *semantria.Session, k semantria.Kind, doc ResourceDoc) ([]string, error) {
		items, err := DecodeSpec[T](doc.Spec)
		if err != nil {
			return nil, err
		}
		op := semantria.Add[T]
		if update {
			op = semantria.Update[T]
		}
		res, err := op(ctx, s, k, items, doc.ConfigID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(res.Value))
		for _, item := range res.Value {
			ids = append(ids, item.ResourceID())
		}
		return ids, nil
	}
}

func applier(k semantria.Kind, update bool) (applyFunc, error) {
	switch k {
	case semantria.KindConfiguration:
		return applyKind[models.Configuration](update), nil
	case semantria.KindCategory:
		return applyKind[models.Category](update), nil
	case semantria.KindBlacklist:
		return applyKind[models.BlacklistItem](update), nil
	case semantria.KindQuery:
		return applyKind[models.Query](update), nil
	case semantria.KindEntity:
		return applyKind[models.UserEntity](update), nil
	case semantria.KindSentimentPhrase:
		return applyKind[models.SentimentPhrase](update), nil
	case semantria.KindTaxonomy:
		return applyKind[models.TaxonomyNode](update), nil
	}
	return nil, semantria.ErrUnsupportedResource.Msgf("unsupported resource kind %q", k)
}

// applyFile creates or updates every document of a resource file in file
// order. Configurations are applied before the resources scoped to them.
func applyFile(cmd *cobra.Command, update bool) error {
	filename, err := cmd.Flags().GetString("filename")
	if err != nil {
		return err
	}
	ignoreErrors, _ := cmd.Flags().GetBool("ignore-errors")
	configID, _ := cmd.Flags().GetString("config-id")

	docs, err := LoadResourceFile(filename)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.Errorf("no resources found in %s", filename)
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	ordered := make([]ResourceDoc, 0, len(docs))
	for _, configFirst := range []bool{true, false} {
		for _, doc := range docs {
			k, _ := semantria.ParseKind(doc.Kind)
			if (k == semantria.KindConfiguration) == configFirst {
				ordered = append(ordered, doc)
			}
		}
	}

	var statuses []applyStatus
	defer func() {
		printApplyStatuses(cmd.OutOrStdout(), cmd.ErrOrStderr(), statuses, update, ignoreErrors)
	}()

	for _, doc := range ordered {
		if doc.ConfigID == "" {
			doc.ConfigID = configID
		}
		st := applyStatus{Kind: doc.Kind, ConfigID: doc.ConfigID}
		ids, err := applyDoc(cmd.Context(), s, doc, update)
		if err != nil {
			st.Error = err.Error()
			statuses = append(statuses, st)
			if !ignoreErrors {
				return alreadyHandled(err)
			}
			continue
		}
		st.Applied, st.Count, st.IDs = true, len(ids), ids
		statuses = append(statuses, st)
	}
	return nil
}

func applyDoc(ctx context.Context, s *semantria.Session, doc ResourceDoc, update bool) ([]string, error) {
	k, err := semantria.ParseKind(doc.Kind)
	if err != nil {
		return nil, err
	}
	if k == semantria.KindConfiguration {
		doc.ConfigID = ""
	}
	fn, err := applier(k, update)
	if err != nil {
		return nil, err
	}
	return fn(ctx, s, k, doc)
}

func printApplyStatuses(out, errOut io.Writer, statuses []applyStatus, update, ignoreErrors bool) {
	if len(statuses) == 0 {
		return
	}
	if jsonOutput {
		printJSON(out, statuses)
		return
	}
	verb := "Created"
	if update {
		verb = "Updated"
	}
	for _, st := range statuses {
		if st.Applied {
			okLabel.Fprint(out, "[OK] ")
			fmt.Fprintf(out, "%s %d %s: %v\n", verb, st.Count, st.Kind, st.IDs)
			continue
		}
		w := errOut
		if ignoreErrors {
			w = out
		}
		errorLabel.Fprint(w, "[ERROR] ")
		fmt.Fprintf(w, "%s: %s\n", st.Kind, st.Error)
	}
}

func newApplyCmd(use string, update bool) *cobra.Command {
	verb := "Create"
	if update {
		verb = "Update"
	}
	cmd := &cobra.Command{
		Use:   use + " -f FILENAME [flags]",
		Short: verb + " resources from a file",
		Long: verb + ` resources from a multi document YAML file. Each document names the
resource kind, an optional configuration and the items to apply:

  kind: queries
  config_id: {{ .ENV.CONFIG_ID }}
  spec:
    - name: Price
      query: price OR cost

Supported kinds: configurations, categories, blacklist, queries, entities,
phrases, taxonomy. Values of the form {{ .ENV.NAME }} are read from the
environment or a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyFile(cmd, update)
		},
	}
	cmd.Flags().StringP("filename", "f", "", "Resource file")
	cmd.MarkFlagRequired("filename")
	cmd.Flags().String("config-id", "", "Configuration for documents that do not name one")
	cmd.Flags().BoolP("ignore-errors", "i", false, "Ignore errors and continue with the next document")
	return cmd
}

// listKind lists every resource of k and prints it.
func listKind[T models.Resource](ctx context.Context, out io.Writer, s *semantria.Session, k semantria.Kind, configID string) error {
	res, err := semantria.List[T](ctx, s, k, configID)
	if err != nil {
		return err
	}
	return printResult(out, k.Path(), res)
}

func newListCmd() *cobra.Command {
	var configID string
	cmd := &cobra.Command{
		Use:   "list KIND [flags]",
		Short: "List resources of a kind",
		Long: `List resources of a kind. Kinds: configurations, categories, blacklist,
queries, entities, phrases, taxonomy.

Examples:
  semantria list configurations
  semantria list queries --config-id 23a4...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := semantria.ParseKind(args[0])
			if err != nil {
				return err
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			ctx, out := cmd.Context(), cmd.OutOrStdout()
			switch k {
			case semantria.KindConfiguration:
				return listKind[models.Configuration](ctx, out, s, k, "")
			case semantria.KindCategory:
				return listKind[models.Category](ctx, out, s, k, configID)
			case semantria.KindBlacklist:
				return listKind[models.BlacklistItem](ctx, out, s, k, configID)
			case semantria.KindQuery:
				return listKind[models.Query](ctx, out, s, k, configID)
			case semantria.KindEntity:
				return listKind[models.UserEntity](ctx, out, s, k, configID)
			case semantria.KindSentimentPhrase:
				return listKind[models.SentimentPhrase](ctx, out, s, k, configID)
			case semantria.KindTaxonomy:
				return listKind[models.TaxonomyNode](ctx, out, s, k, configID)
			}
			return semantria.ErrUnsupportedResource.Msgf("unsupported resource kind %q", args[0])
		},
	}
	cmd.Flags().StringVar(&configID, "config-id", "", "Configuration id, the primary configuration when empty")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var configID string
	cmd := &cobra.Command{
		Use:   "delete KIND ID... [flags]",
		Short: "Delete resources by id",
		Long: `Delete resources by id.

Examples:
  semantria delete queries 5c1d... 77ab... --config-id 23a4...
  semantria delete configuration 23a4...`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := semantria.ParseKind(args[0])
			if err != nil {
				return err
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			ids := args[1:]
			if k == semantria.KindConfiguration {
				configID = ""
			}
			status, err := semantria.Delete(cmd.Context(), s, k, ids, configID)
			if err != nil {
				errorLabel.Fprint(cmd.ErrOrStderr(), "[ERROR] ")
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", k.Path(), err)
				return alreadyHandled(err)
			}
			printOK(cmd.OutOrStdout(), map[string]any{"kind": k.Path(), "deleted": ids, "status": status},
				"Deleted %d %s", len(ids), k.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&configID, "config-id", "", "Configuration id, the primary configuration when empty")
	return cmd
}

func newCloneConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone-config NAME TEMPLATE_ID",
		Short: "Create a configuration from an existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := s.CloneConfiguration(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if len(res.Value) == 0 {
				return errors.New("service returned no configuration")
			}
			created := res.Value[0]
			printOK(cmd.OutOrStdout(), map[string]any{"name": created.Name, "config_id": created.ID, "template": args[1]},
				"Cloned %s into %s (%s)", args[1], created.Name, created.ID)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newApplyCmd("create", false))
	rootCmd.AddCommand(newApplyCmd("update", true))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newCloneConfigCmd())
}
