package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/iho/cashdesk/internal/adapter/http/dto"
	"github.com/iho/cashdesk/internal/adapter/http/middleware"
	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/auth"
)

// apiError is returned for any non-2xx response.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("server returned %d: %s", e.Status, e.Body.Error)
	if e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	if e.Body.Proposal != nil {
		msg += fmt.Sprintf(" (shortfall proposal %s, top up %s)", e.Body.Proposal.ID, e.Body.Proposal.RequiredTopUp)
	}
	return msg
}

// do sends one request and pretty-prints the JSON response. Mutations carry
// a fresh idempotency key so a retried command is not applied twice.
func do(ctx context.Context, opts *rootOptions, out io.Writer, method, path string, body any) error {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(opts.baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.IdempotencyKeyHeader, ulid.Make().String())
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(raw, &apiErr.Body) != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		_, err = out.Write(raw)
		return err
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(out)
	return err
}

func newPayoutCmd(opts *rootOptions) *cobra.Command {
	var (
		req   dto.CashPayoutRequest
		chips map[string]int64
	)

	cmd := &cobra.Command{
		Use:     "payout",
		Short:   "Submit a cash payout for returned chips",
		Example: "  cashdesk payout --player P-1001 --total 6000 --chips 5000=1,500=2",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.PlayerID == "" && req.Phone == "" {
				return fmt.Errorf("one of --player or --phone is required")
			}
			if len(chips) > 0 {
				req.Breakdown = chips
			}
			return do(cmd.Context(), opts, cmd.OutOrStdout(), http.MethodPost, "/api/v1/cash-payouts", &req)
		},
	}

	cmd.Flags().StringVar(&req.PlayerID, "player", "", "Player id")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Player mobile number")
	cmd.Flags().StringVar(&req.TotalValue, "total", "", "Total chip value returned")
	cmd.Flags().StringToInt64Var(&chips, "chips", nil, "Chip counts as denomination=count")
	cmd.Flags().BoolVar(&req.CEOPermissionConfirmed, "ceo-confirmed", false, "CEO permission confirmed for a house player")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func newReverseCmd(opts *rootOptions) *cobra.Command {
	var req dto.ReverseRequest

	reasons := make([]string, 0, len(domain.ReversalReasons()))
	for _, r := range domain.ReversalReasons() {
		reasons = append(reasons, string(r))
	}

	cmd := &cobra.Command{
		Use:   "reverse <transaction-id>",
		Short: "Reverse a committed transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/transactions/" + url.PathEscape(args[0]) + "/reverse"
			return do(cmd.Context(), opts, cmd.OutOrStdout(), http.MethodPost, path, &req)
		},
	}

	cmd.Flags().StringVar(&req.Reason, "reason", "", "Reason: "+strings.Join(reasons, ", "))
	cmd.Flags().StringVar(&req.Note, "note", "", "Free-text note, required for reason other")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [player-id]",
		Short: "Show a player's chip position, or the wallets when no player is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/wallets"
			if len(args) == 1 {
				path = "/api/v1/players/" + url.PathEscape(args[0]) + "/balance"
			}
			return do(cmd.Context(), opts, cmd.OutOrStdout(), http.MethodGet, path, nil)
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit, offset int
		types         []string
		since         string
	)

	cmd := &cobra.Command{
		Use:   "history <player-id>",
		Short: "List a player's transactions with inflow and outflow totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				q.Set("offset", strconv.Itoa(offset))
			}
			if len(types) > 0 {
				q.Set("type", strings.Join(types, ","))
			}
			if since != "" {
				q.Set("since", since)
			}

			path := "/api/v1/players/" + url.PathEscape(args[0]) + "/transactions"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			return do(cmd.Context(), opts, cmd.OutOrStdout(), http.MethodGet, path, nil)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	cmd.Flags().StringSliceVar(&types, "type", nil, "Transaction types to include")
	cmd.Flags().StringVar(&since, "since", "", "Only transactions at or after this RFC3339 time")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
		op     domain.Operator
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}
			op.Role = domain.Role(role)
			token, err := auth.NewJWTManager(secret, ttl).Generate(&op)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", envOr("JWT_SECRET", ""), "Signing secret shared with the server")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&op.ID, "operator", "", "Operator id")
	cmd.Flags().StringVar(&op.Name, "name", "", "Operator display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCashier), "Role: supervisor, cashier or viewer")
	_ = cmd.MarkFlagRequired("operator")
	return cmd
}
