package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Work through detected transactions",
		Long: `List transactions that have been detected but not yet confirmed, modified or
ignored. Low-confidence transactions are flagged "review". Use the confirm,
ignore and edit subcommands with the ID shown in the first column.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.TransactionFilter{Status: model.StatusDetected}
			if !all {
				needsReview := true
				filter.NeedsReview = &needsReview
			}
			txns, err := store.ListTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if len(txns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Nothing to review."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle(fmt.Sprintf("%d transactions to review", len(txns))))
			return cli.RenderTransactions(cmd.OutOrStdout(), txns, time.Now(), settings.ValidityThreshold)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include confident detections, not only flagged ones")

	cmd.AddCommand(confirmCmd())
	cmd.AddCommand(ignoreCmd())
	cmd.AddCommand(editCmd())

	return cmd
}

func confirmCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "confirm <id>...",
		Short: "Accept transactions as detected",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, id := range args {
				txn, err := findTransaction(ctx, store, id)
				if err != nil {
					return err
				}
				if err := txn.Confirm(category, time.Now()); err != nil {
					if errors.Is(err, model.ErrIgnored) {
						return common.NewUserError(fmt.Sprintf("transaction %s was ignored and cannot be confirmed", cli.ShortID(txn.ID)), err)
					}
					return err
				}
				if err := store.UpdateTransaction(ctx, txn); err != nil {
					return fmt.Errorf("failed to update transaction: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Confirmed "+cli.ShortID(txn.ID)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category to record")

	return cmd
}

func ignoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignore <id>...",
		Short: "Reject transactions that were detected in error",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, id := range args {
				txn, err := findTransaction(ctx, store, id)
				if err != nil {
					return err
				}
				txn.Ignore(time.Now())
				if err := store.UpdateTransaction(ctx, txn); err != nil {
					return fmt.Errorf("failed to update transaction: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Ignored "+cli.ShortID(txn.ID)))
			}
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	var (
		merchantName string
		category     string
		direction    string
		channel      string
		remember     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Correct a transaction",
		Long: `Correct the merchant, category, direction or channel of a transaction. A
corrected merchant name is remembered for future imports unless --remember=false.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			var m model.Modification
			if flags.Changed("merchant") {
				m.Merchant = &merchantName
			}
			if flags.Changed("category") {
				m.Category = &category
			}
			if flags.Changed("direction") {
				d := model.Direction(strings.ToUpper(direction))
				m.Direction = &d
			}
			if flags.Changed("channel") {
				c := model.Channel(strings.ToUpper(channel))
				m.Channel = &c
			}
			if m == (model.Modification{}) {
				return common.NewUserError("nothing to change; pass --merchant, --category, --direction or --channel", nil)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := findTransaction(ctx, store, args[0])
			if err != nil {
				return err
			}

			if err := txn.Modify(m, time.Now()); err != nil {
				return common.NewUserError("could not apply the correction", err)
			}
			if err := store.UpdateTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			if m.Merchant != nil && remember && txn.MerchantRaw != model.UnknownMerchant {
				resolver, err := newResolver(store)
				if err != nil {
					return err
				}
				canonical := resolver.Resolve(ctx, txn.MerchantRaw)
				if err := store.SaveMerchant(ctx, &model.Merchant{
					OriginalName: canonical,
					DisplayName:  txn.Merchant,
				}); err != nil {
					return fmt.Errorf("failed to remember merchant: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Future %s transactions will show as %s", canonical, txn.Merchant)))
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated "+cli.ShortID(txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&merchantName, "merchant", "", "correct merchant name")
	cmd.Flags().StringVar(&category, "category", "", "category to record")
	cmd.Flags().StringVar(&direction, "direction", "", "debit or credit")
	cmd.Flags().StringVar(&channel, "channel", "", "cash, upi, card or bank")
	cmd.Flags().BoolVar(&remember, "remember", true, "remember a corrected merchant for future imports")

	return cmd
}
