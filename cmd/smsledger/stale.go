package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/Veraticus/smsledger/internal/trust"
	"github.com/spf13/cobra"
)

func staleCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:     "stale",
		Aliases: []string{"decay"},
		Short:   "List unconfirmed detections whose confidence has decayed",
		Long:    `Confidence in an unconfirmed SMS detection halves every year. This lists
detected transactions whose decayed confidence has fallen below the validity
threshold (decay.validity_threshold, default 0.5).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("threshold") {
				threshold = settings.ValidityThreshold
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.ListTransactions(ctx, service.TransactionFilter{
				Status: model.StatusDetected,
				Source: model.SourceSMS,
			})
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			now := time.Now()
			var stale []model.Transaction
			for _, txn := range txns {
				if !trust.IsConfidenceValidAt(txn.FinalConfidence, txn.OccurredAt, now, threshold) {
					stale = append(stale, txn)
				}
			}

			if len(stale) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("No stale detections."))
				return nil
			}
			return cli.RenderTransactions(cmd.OutOrStdout(), stale, now, threshold)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", trust.DefaultValidityThreshold, "minimum decayed confidence")

	return cmd
}
