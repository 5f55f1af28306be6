package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/parser"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	var (
		sender     string
		receivedAt string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "parse <message text>",
		Short: "Parse one SMS without storing it",
		Long: `Run a single message through the validation gate and parsing pipeline and
show what would be recorded. Nothing is written to the ledger.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if receivedAt != "" {
				parsed, err := time.Parse(time.RFC3339, receivedAt)
				if err != nil {
					return fmt.Errorf("invalid --received-at: %w", err)
				}
				when = parsed
			}

			result := newAssembler().Evaluate(strings.Join(args, " "), when, sender)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(parseReport(result))
			}

			if !result.Accepted() {
				fmt.Fprintln(out, cli.FormatWarning(describeRejection(result)))
				if result.Rejection != parser.RejectedByGate {
					printFieldConfidence(cmd, result.Parsed)
				}
				return nil
			}

			fmt.Fprintln(out, cli.FormatSuccess("Transaction detected"))
			printFieldConfidence(cmd, result.Parsed)
			return cli.RenderTransactionDetail(out, *result.Transaction, time.Now())
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "SMS sender ID, e.g. VM-HDFCBK")
	cmd.Flags().StringVar(&receivedAt, "received-at", "", "receipt time in RFC 3339 (default: now)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func describeRejection(result parser.Result) string {
	switch result.Rejection {
	case parser.RejectedByGate:
		if result.Verdict.Pattern != "" {
			return fmt.Sprintf("Not a transaction (%s, matched %q)", result.Verdict.Reason, result.Verdict.Pattern)
		}
		return fmt.Sprintf("Not a transaction (%s)", result.Verdict.Reason)
	case parser.RejectedNoAmount:
		return "No amount found"
	case parser.RejectedLowConfidence:
		return fmt.Sprintf("Confidence %.2f is below the %.2f minimum", result.Parsed.Confidence, settings.MinConfidence)
	}
	return "Rejected"
}

func printFieldConfidence(cmd *cobra.Command, parsed model.ParsedTransaction) {
	out := cmd.OutOrStdout()
	for _, field := range []string{model.FieldSender, model.FieldAmount, model.FieldDirection, model.FieldMerchant, model.FieldChannel} {
		fmt.Fprintf(out, "  %-10s %.2f\n", field, parsed.FieldConfidence[field])
	}
	fmt.Fprintf(out, "  %-10s %.2f\n", "aggregate", parsed.Confidence)
}

type parseOutput struct {
	Transaction *model.Transaction `json:"transaction,omitempty"`
	Fields      map[string]float64 `json:"fields,omitempty"`
	Rejection   string             `json:"rejection,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	Pattern     string             `json:"pattern,omitempty"`
	Confidence  float64            `json:"confidence"`
	Accepted    bool               `json:"accepted"`
}

func parseReport(result parser.Result) parseOutput {
	return parseOutput{
		Accepted:    result.Accepted(),
		Rejection:   string(result.Rejection),
		Reason:      string(result.Verdict.Reason),
		Pattern:     result.Verdict.Pattern,
		Fields:      result.Parsed.FieldConfidence,
		Confidence:  result.Parsed.Confidence,
		Transaction: result.Transaction,
	}
}
