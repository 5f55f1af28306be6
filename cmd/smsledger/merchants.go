package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/merchant"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/spf13/cobra"
)

func merchantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Manage merchant names",
		Long: `Inspect how captured merchant strings are resolved and control the names the
ledger displays for them.`,
	}

	cmd.AddCommand(merchantsListCmd())
	cmd.AddCommand(merchantsRenameCmd())
	cmd.AddCommand(merchantsDeleteCmd())
	cmd.AddCommand(merchantsResolveCmd())

	return cmd
}

func merchantsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List merchant display mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			merchants, err := store.ListMerchants(ctx)
			if err != nil {
				return fmt.Errorf("failed to list merchants: %w", err)
			}
			return cli.RenderMerchants(cmd.OutOrStdout(), merchants)
		},
	}
}

func merchantsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <captured name> <display name>",
		Short: "Display a merchant under another name",
		Long: `Map a merchant, as resolved from SMS text, to the name you want to see.
The captured name is resolved first, so "ZMT*ORDER" and "ZOMATO" map to the
same entry.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			resolver, err := newResolver(store)
			if err != nil {
				return err
			}
			canonical := resolver.Resolve(ctx, args[0])
			if canonical == model.UnknownMerchant {
				return common.NewUserError("captured name is empty", nil)
			}

			if err := store.SaveMerchant(ctx, &model.Merchant{
				OriginalName: canonical,
				DisplayName:  args[1],
				LastUpdated:  time.Now(),
			}); err != nil {
				return fmt.Errorf("failed to save merchant: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s will be shown as %s", canonical, args[1])))
			return nil
		},
	}
}

func merchantsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <captured name>",
		Short: "Remove a merchant display mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteMerchant(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("no mapping for %q", args[0]), err)
				}
				return fmt.Errorf("failed to delete merchant: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed mapping for "+args[0]))
			return nil
		},
	}
}

func merchantsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <captured text>",
		Short: "Show how a captured merchant string resolves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			resolver, err := newResolver(store)
			if err != nil {
				return err
			}

			canonical := resolver.Resolve(ctx, args[0])
			display := merchant.Display(canonical)
			if mapped, err := store.GetMerchantDisplayName(ctx, canonical); err == nil {
				display = mapped
			} else if !errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("failed to look up display name: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "normalized: %s\n", merchant.Normalize(args[0]))
			fmt.Fprintf(out, "canonical:  %s\n", canonical)
			fmt.Fprintf(out, "displayed:  %s\n", display)
			return nil
		},
	}
}
