package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/smsledger/internal/merchant"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/Veraticus/smsledger/internal/trust"
)

// ShortID is the prefix of a transaction ID shown in tables.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatAmount renders a signed rupee amount coloured by direction.
func FormatAmount(txn model.Transaction) string {
	amount := "₹" + txn.Amount.StringFixed(2)
	if txn.Direction == model.DirectionCredit {
		return CreditStyle.Render("+" + amount)
	}
	return DebitStyle.Render("-" + amount)
}

// TransactionFlags describes why a row deserves attention.
func TransactionFlags(txn model.Transaction, now time.Time, validityThreshold float64) string {
	var flags []string
	if txn.NeedsReview {
		flags = append(flags, "review")
	}
	if txn.Source == model.SourceSMS && !trust.IsConfidenceValidAt(txn.FinalConfidence, txn.OccurredAt, now, validityThreshold) {
		flags = append(flags, "stale")
	}
	return strings.Join(flags, ",")
}

// RenderTransactions writes txns as an aligned table. Confidence is shown
// after decay relative to now.
func RenderTransactions(w io.Writer, txns []model.Transaction, now time.Time, validityThreshold float64) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, InfoStyle.Render("No transactions found."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("ID"),
		TableHeaderStyle.Render("Date"),
		TableHeaderStyle.Render("Amount"),
		TableHeaderStyle.Render("Merchant"),
		TableHeaderStyle.Render("Channel"),
		TableHeaderStyle.Render("Status"),
		TableHeaderStyle.Render("Confidence"),
		TableHeaderStyle.Render("Flags"))

	for _, txn := range txns {
		effective := txn.FinalConfidence
		if txn.Source == model.SourceSMS {
			effective = trust.EffectiveConfidenceAt(txn.FinalConfidence, txn.OccurredAt, now)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
			ShortID(txn.ID),
			txn.OccurredAt.Local().Format("2006-01-02 15:04"),
			FormatAmount(txn),
			merchant.Display(txn.Merchant),
			txn.Channel,
			txn.Status,
			effective*100,
			WarningStyle.Render(TransactionFlags(txn, now, validityThreshold)))
	}
	return tw.Flush()
}

// RenderTransactionDetail writes every field of txn.
func RenderTransactionDetail(w io.Writer, txn model.Transaction, now time.Time) error {
	var b strings.Builder
	row := func(label, value string) {
		if value == "" {
			value = SubtleStyle.Render("(none)")
		}
		fmt.Fprintf(&b, "%-17s %s\n", label+":", value)
	}

	row("ID", txn.ID)
	row("Amount", FormatAmount(txn))
	row("Direction", string(txn.Direction))
	row("Merchant", merchant.Display(txn.Merchant))
	row("As captured", txn.MerchantRaw)
	row("Channel", string(txn.Channel))
	row("Account", txn.AccountType)
	row("Sender", txn.SenderID)
	row("Category", txn.Category)
	row("Notes", txn.Notes)
	row("Status", string(txn.Status))
	row("Entry", string(txn.EntryType))
	row("Occurred", txn.OccurredAt.Local().Format(time.RFC1123))
	row("Confidence", fmt.Sprintf("%.2f content, %.2f sender, %.2f final", txn.Confidence, txn.SenderTrust, txn.FinalConfidence))
	if txn.Source == model.SourceSMS {
		row("Decayed", fmt.Sprintf("%.2f", trust.EffectiveConfidenceAt(txn.FinalConfidence, txn.OccurredAt, now)))
	}

	_, err := fmt.Fprintln(w, RenderBox(InboxIcon+" Transaction "+ShortID(txn.ID), strings.TrimRight(b.String(), "\n")))
	return err
}

// RenderMerchants writes the merchant display mappings as a table.
func RenderMerchants(w io.Writer, merchants []model.Merchant) error {
	if len(merchants) == 0 {
		_, err := fmt.Fprintln(w, InfoStyle.Render("No merchant mappings yet. Use 'smsledger merchants rename' to add one."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("Captured as"),
		TableHeaderStyle.Render("Displayed as"),
		TableHeaderStyle.Render("Used"),
		TableHeaderStyle.Render("Updated"))
	for _, m := range merchants {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			m.OriginalName,
			m.DisplayName,
			m.UseCount,
			m.LastUpdated.Local().Format("2006-01-02"))
	}
	return tw.Flush()
}

// FormatIngestSummary renders the outcome of an ingestion run.
func FormatIngestSummary(stats *service.IngestStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  • Messages read: %d\n", stats.Total)
	fmt.Fprintf(&b, "  • Saved: %d\n", stats.Saved)
	fmt.Fprintf(&b, "  • Held for review: %d\n", stats.Quarantined)
	fmt.Fprintf(&b, "  • Duplicates skipped: %d\n", stats.Duplicates)
	fmt.Fprintf(&b, "  • Not transactions: %d", stats.RejectedTotal())

	reasons := make([]string, 0, len(stats.Rejected))
	for reason := range stats.Rejected {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(&b, "\n      %s: %d", reason, stats.Rejected[reason])
	}

	if stats.Failed > 0 {
		fmt.Fprintf(&b, "\n  • %s", ErrorStyle.Render(fmt.Sprintf("Failed: %d", stats.Failed)))
	}
	fmt.Fprintf(&b, "\n  • Time taken: %s", stats.Duration.Round(time.Millisecond))

	return RenderBox("Ingestion Complete", b.String())
}
