package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "cashdesk",
		Short:         "Casino cashier desk tool",
		Long:          `Preview chip breakdowns, credit settlements and wallet allocations offline, or talk to a running cashdesk server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("CASHDESK_URL", "http://localhost:8080"), "Base URL of the cashdesk server")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("CASHDESK_TOKEN"), "Operator bearer token")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newPreviewCmd(),
		newPayoutCmd(opts),
		newReverseCmd(opts),
		newBalanceCmd(opts),
		newHistoryCmd(opts),
		newTokenCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
