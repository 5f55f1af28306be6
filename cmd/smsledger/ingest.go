package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/ingest"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	var (
		format     string
		sender     string
		workers    int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Import SMS messages into the ledger",
		Long: `Read an SMS export and record every message that describes a transaction.

The default jsonl format expects one object per line:

  {"body": "Rs.250 debited ...", "sender": "VM-HDFCBK", "received_at": 1704067200000}

received_at may be epoch milliseconds or RFC 3339 text. With --format text
each line is a message body. Reads standard input when no file is given.
Messages already in the ledger are skipped, so re-running an import is safe.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := handler.HandleInterrupts(cmd.Context(), true)
			defer handler.Stop()

			var input io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0]) // #nosec G304 - user-supplied import path
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				input = f
			}

			reader, err := cli.NewMessageReader(input, format, sender)
			if err != nil {
				return err
			}
			msgs, err := reader.ReadAll(ctx)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No messages to import."))
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			resolver, err := newResolver(store)
			if err != nil {
				return err
			}

			config := ingest.DefaultConfig()
			config.ReviewThreshold = settings.ReviewThreshold
			config.Workers = workers
			worker := ingest.NewWithConfig(store, newAssembler(), resolver, config)

			slog.Info("Starting ingestion",
				"messages", len(msgs),
				"database", settings.DatabasePath,
				"workers", workers)

			var onOutcome func(ingest.Outcome, error)
			var progress *cli.Progress
			if !noProgress {
				progress = cli.NewProgress(cmd.ErrOrStderr(), len(msgs))
				onOutcome = func(ingest.Outcome, error) { progress.Increment() }
			}

			stats, err := worker.ProcessBatch(ctx, msgs, onOutcome)
			if progress != nil && err == nil {
				progress.Finish()
			}
			if stats != nil {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatIngestSummary(stats))
			}
			if err != nil {
				return err
			}
			if stats.Quarantined > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Run 'smsledger review' to check the held transactions."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", cli.FormatJSONLines, "input format (jsonl, text)")
	cmd.Flags().StringVar(&sender, "sender", "", "sender ID for messages that carry none")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel parsing workers")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")

	return cmd
}
