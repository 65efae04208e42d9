package domain

import (
	"context"
	"errors"
)

// Operator is the authenticated cashier staff member acting on the desk.
type Operator struct {
	ID   string
	Name string
	Role Role
}

// Role represents an operator's access level
type Role string

const (
	// RoleSupervisor can do everything a cashier can, plus reversals and float top-ups
	RoleSupervisor Role = "supervisor"

	// RoleCashier can submit payouts, deposits, returns and expenses
	RoleCashier Role = "cashier"

	// RoleViewer can only read balances and history
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleSupervisor: true,
	RoleCashier:    true,
	RoleViewer:     true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanSubmit checks if the role can submit money-moving operations
func (r Role) CanSubmit() bool {
	return r == RoleSupervisor || r == RoleCashier
}

// CanReverse checks if the role can reverse committed transactions
func (r Role) CanReverse() bool {
	return r == RoleSupervisor
}

// CanTopUpFloat checks if the role can add cash to the primary float
func (r Role) CanTopUpFloat() bool {
	return r == RoleSupervisor
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type operatorKey struct{}

// SystemOperatorID is recorded when no authenticated operator is present.
const SystemOperatorID = "system"

// WithOperator stores op on the context.
func WithOperator(ctx context.Context, op *Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

// OperatorFromContext returns the authenticated operator, if any.
func OperatorFromContext(ctx context.Context) (*Operator, bool) {
	op, ok := ctx.Value(operatorKey{}).(*Operator)
	return op, ok && op != nil
}

// OperatorID returns the operator id on ctx or SystemOperatorID.
func OperatorID(ctx context.Context) string {
	if op, ok := OperatorFromContext(ctx); ok {
		return op.ID
	}
	return SystemOperatorID
}

type requestIDKey struct{}

// WithRequestID stores the inbound request id for audit correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id on ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
