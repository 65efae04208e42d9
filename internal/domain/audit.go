package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an operator action recorded for compliance review
type AuditLog struct {
	ID           string
	OperatorID   string // Who performed the action
	Action       string // What action (payout.submit, transaction.reverse, etc.)
	ResourceType string // intent, transaction, shortfall
	ResourceID   string
	RequestID    string // Request ID for tracing
	Details      JSON   // Action-specific fields
	Status       string // success, failure, error
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionPayoutSubmit      AuditAction = "payout.submit"
	AuditActionExpenseSubmit     AuditAction = "expense.submit"
	AuditActionDepositSubmit     AuditAction = "deposit.submit"
	AuditActionReturnSubmit      AuditAction = "chip_return.submit"
	AuditActionFloatTopUp        AuditAction = "float.top_up"
	AuditActionTransactionRevert AuditAction = "transaction.reverse"
	AuditActionHousePlayerPayout AuditAction = "payout.house_player_confirmed"
)

// AuditActionFor returns the audit action recorded for an operation.
func AuditActionFor(op Operation) AuditAction {
	switch op {
	case OpCashPayout:
		return AuditActionPayoutSubmit
	case OpExpense:
		return AuditActionExpenseSubmit
	case OpDeposit:
		return AuditActionDepositSubmit
	case OpReturnChips:
		return AuditActionReturnSubmit
	case OpAddFloat:
		return AuditActionFloatTopUp
	case OpReversal:
		return AuditActionTransactionRevert
	default:
		return AuditAction(string(op))
	}
}

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// AuditStatusFor maps an intent outcome to an audit status.
func AuditStatusFor(status IntentStatus) AuditStatus {
	switch status {
	case IntentCommitted:
		return AuditStatusSuccess
	case IntentRejected:
		return AuditStatusFailure
	default:
		return AuditStatusError
	}
}

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	OperatorID   string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
