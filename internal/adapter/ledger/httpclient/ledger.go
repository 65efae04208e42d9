package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iho/cashdesk/internal/domain"
)

// FetchChipBalance reads a player's chip and credit position.
func (c *Client) FetchChipBalance(ctx context.Context, playerID string) (*domain.PlayerLedgerState, error) {
	var out balanceWire
	err := c.read(ctx, request{
		op:       "fetch_chip_balance",
		path:     "/v1/players/" + url.PathEscape(playerID) + "/balance",
		notFound: domain.ErrPlayerNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}

	id := out.PlayerID
	if id == "" {
		id = playerID
	}

	return &domain.PlayerLedgerState{
		PlayerID:          id,
		ChipBalance:       out.ChipBalance,
		StoredChips:       out.StoredChips,
		OutstandingCredit: out.OutstandingCredit,
		CanCashOut:        out.CanCashOut,
		Known:             true,
	}, nil
}

// FetchWalletState reads the float and secondary wallet balances.
func (c *Client) FetchWalletState(ctx context.Context) (*domain.WalletState, error) {
	var out walletsWire
	if err := c.read(ctx, request{op: "fetch_wallet_state", path: "/v1/wallets"}, &out); err != nil {
		return nil, err
	}

	return &domain.WalletState{
		PrimaryFloatAvailable:  out.PrimaryFloatAvailable,
		SecondaryWalletBalance: out.SecondaryWalletBalance,
	}, nil
}

// SubmitCashPayout asks the ledger to take back chips and pay out cash.
func (c *Client) SubmitCashPayout(ctx context.Context, intent domain.CashPayoutIntent) (*domain.CashPayoutReceipt, error) {
	var out cashPayoutReceiptWire
	err := c.write(ctx, request{
		op:       string(domain.OpCashPayout),
		method:   http.MethodPost,
		path:     "/v1/cash-payouts",
		intentID: intent.IntentID,
		body: cashPayoutWire{
			IntentID:               intent.IntentID,
			PlayerID:               intent.PlayerID,
			ChipsBreakdown:         intent.Breakdown.Wire(),
			TotalValue:             intent.TotalValue,
			CEOPermissionConfirmed: intent.CEOPermissionConfirmed,
		},
		notFound: domain.ErrPlayerNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &domain.CashPayoutReceipt{
		TransactionID: out.TransactionID,
		CreditSettled: out.CreditSettled,
		NetCashPaid:   out.NetCashPaid,
	}, nil
}

// SubmitExpense funds a house expense from the wallets.
func (c *Client) SubmitExpense(ctx context.Context, intent domain.ExpenseIntent) (*domain.ExpenseReceipt, error) {
	var out expenseReceiptWire
	err := c.write(ctx, request{
		op:       string(domain.OpExpense),
		method:   http.MethodPost,
		path:     "/v1/expenses",
		intentID: intent.IntentID,
		body: expenseWire{
			IntentID:    intent.IntentID,
			Amount:      intent.Amount,
			Description: intent.Description,
			Category:    intent.Category,
			Notes:       intent.Notes(),
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	return &domain.ExpenseReceipt{
		TransactionID: out.TransactionID,
		SecondaryDraw: out.SecondaryDraw,
		PrimaryDraw:   out.PrimaryDraw,
	}, nil
}

// SubmitDeposit banks chips or cash on a player's account.
func (c *Client) SubmitDeposit(ctx context.Context, intent domain.DepositIntent) (*domain.DepositReceipt, error) {
	var out depositReceiptWire
	err := c.write(ctx, request{
		op:       string(domain.OpDeposit),
		method:   http.MethodPost,
		path:     "/v1/deposits",
		intentID: intent.IntentID,
		body: depositWire{
			IntentID:       intent.IntentID,
			PlayerID:       intent.PlayerID,
			Kind:           string(intent.Kind),
			Amount:         intent.Amount,
			ChipsBreakdown: intent.Breakdown.Wire(),
		},
		notFound: domain.ErrPlayerNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &domain.DepositReceipt{
		TransactionID:    out.TransactionID,
		NewStoredBalance: out.NewStoredBalance,
	}, nil
}

// SubmitReturnChips hands chips back without a cash payout.
func (c *Client) SubmitReturnChips(ctx context.Context, intent domain.ReturnChipsIntent) (*domain.ReturnChipsReceipt, error) {
	var out returnChipsReceiptWire
	err := c.write(ctx, request{
		op:       string(domain.OpReturnChips),
		method:   http.MethodPost,
		path:     "/v1/chip-returns",
		intentID: intent.IntentID,
		body: returnChipsWire{
			IntentID:       intent.IntentID,
			PlayerID:       intent.PlayerID,
			Amount:         intent.Amount,
			ChipsBreakdown: intent.Breakdown.Wire(),
		},
		notFound: domain.ErrPlayerNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &domain.ReturnChipsReceipt{
		TransactionID:  out.TransactionID,
		RemainingChips: out.RemainingChips,
	}, nil
}

// AddFloat tops up the operational float.
func (c *Client) AddFloat(ctx context.Context, intent domain.FloatTopUpIntent) (*domain.FloatTopUpReceipt, error) {
	var out floatReceiptWire
	err := c.write(ctx, request{
		op:       string(domain.OpAddFloat),
		method:   http.MethodPost,
		path:     "/v1/float",
		intentID: intent.IntentID,
		body: floatWire{
			IntentID: intent.IntentID,
			Amount:   intent.Amount,
			Note:     intent.Note,
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	return &domain.FloatTopUpReceipt{
		TransactionID:     out.TransactionID,
		NewFloatAvailable: out.NewFloatAvailable,
	}, nil
}

// ReverseTransaction requests a compensating entry for a committed record.
func (c *Client) ReverseTransaction(ctx context.Context, intent domain.ReversalIntent) (*domain.ReversalReceipt, error) {
	var out reversalReceiptWire
	err := c.write(ctx, request{
		op:       string(domain.OpReversal),
		method:   http.MethodPost,
		path:     "/v1/transactions/" + url.PathEscape(intent.TransactionID) + "/reverse",
		intentID: intent.IntentID,
		body: reversalWire{
			IntentID: intent.IntentID,
			Reason:   string(intent.Reason),
			Note:     intent.Note,
		},
		notFound: domain.ErrTransactionNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}

	status := domain.TransactionStatus(out.OriginalStatus)
	if status == "" {
		status = domain.StatusReversed
	}
	originalID := out.OriginalID
	if originalID == "" {
		originalID = intent.TransactionID
	}

	return &domain.ReversalReceipt{
		OriginalID:      originalID,
		OriginalStatus:  status,
		ReversalEntryID: out.ReversalEntryID,
	}, nil
}

// GetTransaction reads one committed record.
func (c *Client) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	var out transactionWire
	err := c.read(ctx, request{
		op:       "get_transaction",
		path:     "/v1/transactions/" + url.PathEscape(id),
		notFound: domain.ErrTransactionNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}

	tx, err := out.toDomain()
	if err != nil {
		return nil, &domain.RemoteError{Operation: "get_transaction", Err: err}
	}
	return tx, nil
}

// ListTransactions reads history, newest first.
func (c *Client) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	q := url.Values{}
	if filter.PlayerID != "" {
		q.Set("player_id", filter.PlayerID)
	}
	for _, t := range filter.Types {
		q.Add("type", string(t))
	}
	if filter.Since != nil {
		q.Set("since", filter.Since.UTC().Format(time.RFC3339))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	path := "/v1/transactions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out transactionListWire
	if err := c.read(ctx, request{op: "list_transactions", path: path}, &out); err != nil {
		return nil, err
	}

	txs := make([]*domain.Transaction, 0, len(out.Transactions))
	for _, w := range out.Transactions {
		tx, err := w.toDomain()
		if err != nil {
			return nil, &domain.RemoteError{Operation: "list_transactions", Err: fmt.Errorf("decode: %w", err)}
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
