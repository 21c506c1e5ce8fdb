package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/semantria/semantria-go/internal/common/uuid"
	"github.com/semantria/semantria-go/pkg/semantria"
	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// pollInterval is the delay between polls of a queued item.
var pollInterval = time.Second

var errNotReady = errors.New("not processed yet")

// waitFor polls get until it returns a 200 result or wait elapses. With a
// zero wait get is called once. Every poll runs under the wait deadline;
// when it elapses the last completed result is returned.
func waitFor[T any](ctx context.Context, wait time.Duration, get func(context.Context) (semantria.Result[T], error)) (semantria.Result[T], error) {
	if wait <= 0 {
		return get(ctx)
	}
	deadline, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	var last semantria.Result[T]
	err := retry.Do(func() error {
		res, err := get(deadline)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		last = res
		if res.Accepted() {
			return errNotReady
		}
		return nil
	},
		retry.Context(deadline),
		retry.Attempts(0),
		retry.Delay(pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err == nil || ctx.Err() != nil {
		return last, err
	}
	if last.Status != 0 && (errors.Is(err, errNotReady) || deadline.Err() != nil) {
		return last, nil
	}
	return last, err
}

// readLines returns the non-empty lines of a file.
func readLines(filename string) ([]string, error) {
	data, err := afero.ReadFile(appFS, filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, errors.Wrap(sc.Err(), "failed to read file")
}

// readText returns --text, or the whole --file content.
func readText(text, filename string) (string, error) {
	if filename == "" {
		return text, nil
	}
	data, err := afero.ReadFile(appFS, filename)
	if err != nil {
		return "", errors.Wrap(err, "failed to read file")
	}
	return strings.TrimSpace(string(data)), nil
}

func newDocumentCmd() *cobra.Command {
	var configID string
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Queue documents and retrieve their analysis",
		Long: `Queue documents and retrieve their analysis.

Examples:
  semantria document queue --text "The food was great"
  semantria document batch -f reviews.txt --job-id reviews
  semantria document get D1 --wait 30s
  semantria document processed --job-id reviews`,
	}
	cmd.PersistentFlags().StringVar(&configID, "config-id", "", "Configuration id, the primary configuration when empty")

	var id, text, file, tag, jobID string
	queue := &cobra.Command{
		Use:   "queue [flags]",
		Short: "Queue one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readText(text, file)
			if err != nil {
				return err
			}
			docID := id
			if docID == "" {
				docID = uuid.New().String()
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := s.QueueDocument(cmd.Context(), models.Document{ID: docID, Text: body, Tag: tag, JobID: jobID}, configID)
			if err != nil {
				return err
			}
			if res.OK() {
				return printResult(cmd.OutOrStdout(), "documents", res)
			}
			printOK(cmd.OutOrStdout(), map[string]any{"id": docID, "queued": true}, "Queued document %s", docID)
			return nil
		},
	}
	queue.Flags().StringVar(&id, "id", "", "Document id, generated when empty")
	queue.Flags().StringVar(&text, "text", "", "Document text")
	queue.Flags().StringVarP(&file, "file", "f", "", "Read the document text from a file")
	queue.Flags().StringVar(&tag, "tag", "", "Document tag")
	queue.Flags().StringVar(&jobID, "job-id", "", "Job id")

	var batchFile, batchTag, batchJob string
	batch := &cobra.Command{
		Use:   "batch -f FILENAME [flags]",
		Short: "Queue every line of a file as a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(batchFile)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return errors.Errorf("no documents found in %s", batchFile)
			}
			docs := make([]models.Document, len(lines))
			ids := make([]string, len(lines))
			for i, line := range lines {
				ids[i] = uuid.New().String()
				docs[i] = models.Document{ID: ids[i], Text: line, Tag: batchTag, JobID: batchJob}
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := s.QueueBatchOfDocuments(cmd.Context(), docs, configID)
			if err != nil {
				return err
			}
			if res.OK() {
				return printResult(cmd.OutOrStdout(), "documents", res)
			}
			printOK(cmd.OutOrStdout(), map[string]any{"ids": ids, "queued": true}, "Queued %d documents", len(ids))
			return nil
		},
	}
	batch.Flags().StringVarP(&batchFile, "file", "f", "", "File with one document per line")
	batch.MarkFlagRequired("file")
	batch.Flags().StringVar(&batchTag, "tag", "", "Tag for every document")
	batch.Flags().StringVar(&batchJob, "job-id", "", "Job id for every document")

	var wait time.Duration
	get := &cobra.Command{
		Use:   "get ID [flags]",
		Short: "Get the analysis of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := waitFor(cmd.Context(), wait, func(ctx context.Context) (semantria.Result[*models.DocAnalyticData], error) {
				return s.GetDocument(ctx, args[0], configID)
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "document", res)
		},
	}
	get.Flags().DurationVar(&wait, "wait", 0, "Poll until the document is processed or the duration elapses")

	cancel := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a queued document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			status, err := s.CancelDocument(cmd.Context(), args[0], configID)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), map[string]any{"id": args[0], "status": status}, "Cancelled document %s", args[0])
			return nil
		},
	}

	var processedJob string
	processed := &cobra.Command{
		Use:   "processed [flags]",
		Short: "Retrieve processed documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			var res semantria.Result[[]models.DocAnalyticData]
			if processedJob != "" {
				res, err = s.GetProcessedDocumentsByJobID(cmd.Context(), processedJob)
			} else {
				res, err = s.GetProcessedDocuments(cmd.Context(), configID)
			}
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "documents", res)
		},
	}
	processed.Flags().StringVar(&processedJob, "job-id", "", "Only documents of this job")

	cmd.AddCommand(queue, batch, get, cancel, processed)
	return cmd
}

func newCollectionCmd() *cobra.Command {
	var configID string
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Queue collections and retrieve their facets",
		Long: `Queue collections of documents and retrieve their analysis.

Examples:
  semantria collection queue -f reviews.txt --id C1
  semantria collection get C1 --wait 1m`,
	}
	cmd.PersistentFlags().StringVar(&configID, "config-id", "", "Configuration id, the primary configuration when empty")

	var id, file, tag, jobID string
	var texts []string
	queue := &cobra.Command{
		Use:   "queue [flags]",
		Short: "Queue a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := append([]string(nil), texts...)
			if file != "" {
				lines, err := readLines(file)
				if err != nil {
					return err
				}
				docs = append(docs, lines...)
			}
			if len(docs) == 0 {
				return errors.New("a collection needs at least one document, use --text or --file")
			}
			collID := id
			if collID == "" {
				collID = uuid.New().String()
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := s.QueueCollection(cmd.Context(), models.Collection{ID: collID, Documents: docs, Tag: tag, JobID: jobID}, configID)
			if err != nil {
				return err
			}
			if res.OK() {
				return printResult(cmd.OutOrStdout(), "collections", res)
			}
			printOK(cmd.OutOrStdout(), map[string]any{"id": collID, "documents": len(docs), "queued": true},
				"Queued collection %s with %d documents", collID, len(docs))
			return nil
		},
	}
	queue.Flags().StringVar(&id, "id", "", "Collection id, generated when empty")
	queue.Flags().StringArrayVar(&texts, "text", nil, "Document text, repeatable")
	queue.Flags().StringVarP(&file, "file", "f", "", "File with one document per line")
	queue.Flags().StringVar(&tag, "tag", "", "Collection tag")
	queue.Flags().StringVar(&jobID, "job-id", "", "Job id")

	var wait time.Duration
	get := &cobra.Command{
		Use:   "get ID [flags]",
		Short: "Get the analysis of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			res, err := waitFor(cmd.Context(), wait, func(ctx context.Context) (semantria.Result[*models.CollAnalyticData], error) {
				return s.GetCollection(ctx, args[0], configID)
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "collection", res)
		},
	}
	get.Flags().DurationVar(&wait, "wait", 0, "Poll until the collection is processed or the duration elapses")

	cancel := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a queued collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			status, err := s.CancelCollection(cmd.Context(), args[0], configID)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), map[string]any{"id": args[0], "status": status}, "Cancelled collection %s", args[0])
			return nil
		},
	}

	var processedJob string
	processed := &cobra.Command{
		Use:   "processed [flags]",
		Short: "Retrieve processed collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			var res semantria.Result[[]models.CollAnalyticData]
			if processedJob != "" {
				res, err = s.GetProcessedCollectionsByJobID(cmd.Context(), processedJob)
			} else {
				res, err = s.GetProcessedCollections(cmd.Context(), configID)
			}
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "collections", res)
		},
	}
	processed.Flags().StringVar(&processedJob, "job-id", "", "Only collections of this job")

	cmd.AddCommand(queue, get, cancel, processed)
	return cmd
}

func newUserDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "userdir CONFIG_ID PATH",
		Short: "Download the user directory of a configuration",
		Long: `Download the salience user directory of a configuration. The archive type
follows the file extension: .zip, .tar or .tar.gz.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			n, err := s.WriteUserDirectoryToFile(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), map[string]any{"path": args[1], "bytes": n, "archive": semantria.ArchiveFromPath(args[1])},
				"Wrote %s (%d bytes)", args[1], n)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newDocumentCmd())
	rootCmd.AddCommand(newCollectionCmd())
	rootCmd.AddCommand(newUserDirCmd())
}
