package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var (
		amount      string
		merchant    string
		direction   string
		channel     string
		category    string
		notes       string
		date        string
		accountType string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction by hand",
		Long: `Record a transaction that never produced an SMS, such as a cash payment.
Entries with a category are stored as confirmed; entries without one wait in
the review inbox.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			value, err := decimal.NewFromString(strings.ReplaceAll(amount, ",", ""))
			if err != nil {
				return common.NewUserError(fmt.Sprintf("%q is not an amount", amount), err)
			}

			entry := model.ManualEntry{
				Amount:      value,
				Merchant:    merchant,
				AccountType: accountType,
				Category:    category,
				Notes:       notes,
				Direction:   model.Direction(strings.ToUpper(direction)),
				Channel:     model.Channel(strings.ToUpper(channel)),
			}
			if date != "" {
				occurred, err := parseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				entry.OccurredAt = occurred
			}

			txn, err := model.NewManualTransaction(entry, time.Now())
			if err != nil {
				return common.NewUserError("could not record the transaction", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (%s)", cli.FormatAmount(*txn), txn.Merchant, cli.ShortID(txn.ID))))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount in rupees (required)")
	cmd.Flags().StringVar(&merchant, "merchant", "", "who was paid or who paid you")
	cmd.Flags().StringVar(&direction, "direction", "debit", "debit or credit")
	cmd.Flags().StringVar(&channel, "channel", "cash", "cash, upi, card or bank")
	cmd.Flags().StringVar(&category, "category", "", "category; marks the entry confirmed")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&date, "date", "", "day of the transaction (YYYY-MM-DD, default: now)")
	cmd.Flags().StringVar(&accountType, "account", "", "account type, e.g. BANK or CREDIT_CARD")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
