package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var (
		status     string
		source     string
		since      string
		until      string
		limit      int
		reviewOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded transactions",
		Long:  `List transactions newest first, optionally filtered by date, status or source.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.TransactionFilter{Limit: limit}
			if status != "" {
				s, err := model.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = s
			}
			switch source {
			case "":
			case "sms":
				filter.Source = model.SourceSMS
			case "manual":
				filter.Source = model.SourceManual
			default:
				return fmt.Errorf("unknown source %q (sms, manual)", source)
			}
			if since != "" {
				t, err := parseDate(since)
				if err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
				filter.StartDate = &t
			}
			if until != "" {
				t, err := parseDate(until)
				if err != nil {
					return fmt.Errorf("invalid --until: %w", err)
				}
				end := t.Add(24*time.Hour - time.Nanosecond)
				filter.EndDate = &end
			}
			if reviewOnly {
				needsReview := true
				filter.NeedsReview = &needsReview
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.ListTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}
			return cli.RenderTransactions(cmd.OutOrStdout(), txns, time.Now(), settings.ValidityThreshold)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only this status (detected, confirmed, modified, ignored)")
	cmd.Flags().StringVar(&source, "source", "", "only this source (sms, manual)")
	cmd.Flags().StringVar(&since, "since", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows (0 for all)")
	cmd.Flags().BoolVar(&reviewOnly, "review", false, "only transactions held for review")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := findTransaction(ctx, store, args[0])
			if err != nil {
				return err
			}
			return cli.RenderTransactionDetail(cmd.OutOrStdout(), *txn, time.Now())
		},
	}
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
