package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/cashdesk/internal/domain"
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Run cashier calculations offline",
	}

	cmd.AddCommand(
		newPreviewBreakdownCmd(),
		newPreviewAutoFillCmd(),
		newPreviewSettleCmd(),
		newPreviewAllocateCmd(),
	)
	return cmd
}

func newPreviewBreakdownCmd() *cobra.Command {
	var (
		chips    map[string]int64
		declared string
	)

	cmd := &cobra.Command{
		Use:     "breakdown",
		Short:   "Reconcile chip counts against a declared amount",
		Example: "  cashdesk preview breakdown --chips 5000=2,500=3 --declared 11500",
		RunE: func(cmd *cobra.Command, args []string) error {
			breakdown, err := domain.ParseChipBreakdown(chips)
			if err != nil {
				return err
			}
			amount, err := parseMoney("declared", declared)
			if err != nil {
				return err
			}

			check := domain.CheckBreakdown(breakdown, amount)
			out := cmd.OutOrStdout()
			printBreakdown(out, breakdown)
			fmt.Fprintf(out, "Total:      %s\n", check.Total.StringFixed(2))
			fmt.Fprintf(out, "Declared:   %s\n", check.Declared.StringFixed(2))
			fmt.Fprintf(out, "Difference: %s\n", check.Difference.StringFixed(2))
			if !check.Valid {
				return fmt.Errorf("breakdown does not match declared amount")
			}
			fmt.Fprintln(out, "Breakdown OK")
			return nil
		},
	}

	cmd.Flags().StringToInt64Var(&chips, "chips", nil, "Chip counts as denomination=count")
	cmd.Flags().StringVar(&declared, "declared", "", "Declared amount")
	_ = cmd.MarkFlagRequired("declared")
	return cmd
}

func newPreviewAutoFillCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "autofill",
		Short: "Propose a greedy chip breakdown for an amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney("target", target)
			if err != nil {
				return err
			}
			if err := domain.ValidateAmount("target", amount); err != nil {
				return err
			}

			result := domain.AutoFill(amount)
			out := cmd.OutOrStdout()
			printBreakdown(out, result.Breakdown)
			if !result.Remainder.IsZero() {
				fmt.Fprintf(out, "Remainder:  %s (below the smallest chip)\n", result.Remainder.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Amount to fill")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newPreviewSettleCmd() *cobra.Command {
	var total, credit string

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Split returned chips between credit repayment and cash",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseMoney("total", total)
			if err != nil {
				return err
			}
			outstanding, err := parseMoney("credit", credit)
			if err != nil {
				return err
			}

			s := domain.SettleCredit(value, outstanding)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chip value:        %s\n", s.TotalChipValue.StringFixed(2))
			fmt.Fprintf(out, "Credit settled:    %s\n", s.CreditToSettle.StringFixed(2))
			fmt.Fprintf(out, "Cash payout:       %s\n", s.NetCashPayout.StringFixed(2))
			fmt.Fprintf(out, "Credit remaining:  %s\n", s.CreditRemainingAfter.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&total, "total", "", "Chip value returned")
	cmd.Flags().StringVar(&credit, "credit", "0", "Outstanding credit")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func newPreviewAllocateCmd() *cobra.Command {
	var amount, float, secondary string

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate an expense across the secondary wallet and the float",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseMoney("amount", amount)
			if err != nil {
				return err
			}
			primary, err := parseMoney("float", float)
			if err != nil {
				return err
			}
			second, err := parseMoney("secondary", secondary)
			if err != nil {
				return err
			}

			a := domain.AllocateExpense(value, domain.WalletState{
				PrimaryFloatAvailable:  primary,
				SecondaryWalletBalance: second,
			})

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WALLET\tDRAW")
			for _, d := range a.Draws {
				fmt.Fprintf(tw, "%s\t%s\n", d.Wallet, d.Amount.StringFixed(2))
			}
			_ = tw.Flush()

			if !a.IsValid {
				fmt.Fprintf(out, "Shortfall: %s\n", a.Shortfall.StringFixed(2))
				return a.Err()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Expense amount")
	cmd.Flags().StringVar(&float, "float", "0", "Primary float available")
	cmd.Flags().StringVar(&secondary, "secondary", "0", "Secondary wallet balance")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func printBreakdown(w io.Writer, b domain.ChipBreakdown) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHIP\tCOUNT\tVALUE")
	for _, d := range b.Lines() {
		count := b[d]
		fmt.Fprintf(tw, "%s\t%d\t%s\n", d, count, d.Value().Mul(decimal.NewFromInt(count)).StringFixed(2))
	}
	_ = tw.Flush()
}

func parseMoney(field, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", field, raw, err)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: must not be negative", field, raw)
	}
	return v, nil
}
