package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
)

// ShortfallStore implements usecase.ShortfallStore. Proposals expire with
// their TTL so an abandoned shortfall never blocks the desk.
type ShortfallStore struct {
	client *redis.Client
	prefix string
}

// NewShortfallStore creates a new ShortfallStore.
func NewShortfallStore(client *redis.Client) *ShortfallStore {
	return &ShortfallStore{
		client: client,
		prefix: KeyPrefix + "shortfall:",
	}
}

type payoutRecord struct {
	IntentID               string                        `json:"intent_id"`
	PlayerID               string                        `json:"player_id"`
	Breakdown              map[domain.Denomination]int64 `json:"breakdown,omitempty"`
	TotalValue             decimal.Decimal               `json:"total_value"`
	CEOPermissionConfirmed bool                          `json:"ceo_permission_confirmed"`
}

type proposalRecord struct {
	ID                 string          `json:"id"`
	State              string          `json:"state"`
	RequiredTopUp      decimal.Decimal `json:"required_top_up"`
	Payout             payoutRecord    `json:"payout"`
	OperatorID         string          `json:"operator_id"`
	Message            string          `json:"message,omitempty"`
	TopUpTransactionID string          `json:"top_up_transaction_id,omitempty"`
	ResubmitIntentID   string          `json:"resubmit_intent_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Save stores or replaces a proposal.
func (s *ShortfallStore) Save(ctx context.Context, p *domain.ShortfallProposal, ttl time.Duration) error {
	data, err := json.Marshal(toProposalRecord(p))
	if err != nil {
		return fmt.Errorf("encode shortfall proposal: %w", err)
	}
	return s.client.Set(ctx, s.prefix+p.ID, data, ttl).Err()
}

// Get loads a proposal.
func (s *ShortfallStore) Get(ctx context.Context, id string) (*domain.ShortfallProposal, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}

	var rec proposalRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode shortfall proposal %s: %w", id, err)
	}
	return rec.toDomain(), nil
}

// Delete consumes a proposal.
func (s *ShortfallStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.prefix+id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProposalNotFound
	}
	return nil
}

func toProposalRecord(p *domain.ShortfallProposal) proposalRecord {
	return proposalRecord{
		ID:            p.ID,
		State:         string(p.State),
		RequiredTopUp: p.RequiredTopUp,
		Payout: payoutRecord{
			IntentID:               p.Payout.IntentID,
			PlayerID:               p.Payout.PlayerID,
			Breakdown:              p.Payout.Breakdown,
			TotalValue:             p.Payout.TotalValue,
			CEOPermissionConfirmed: p.Payout.CEOPermissionConfirmed,
		},
		OperatorID:         p.OperatorID,
		Message:            p.Message,
		TopUpTransactionID: p.TopUpTransactionID,
		ResubmitIntentID:   p.ResubmitIntentID,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (r proposalRecord) toDomain() *domain.ShortfallProposal {
	return &domain.ShortfallProposal{
		ID:            r.ID,
		State:         domain.ProposalState(r.State),
		RequiredTopUp: r.RequiredTopUp,
		Payout: domain.CashPayoutIntent{
			IntentID:               r.Payout.IntentID,
			PlayerID:               r.Payout.PlayerID,
			Breakdown:              domain.ChipBreakdown(r.Payout.Breakdown),
			TotalValue:             r.Payout.TotalValue,
			CEOPermissionConfirmed: r.Payout.CEOPermissionConfirmed,
		},
		OperatorID:         r.OperatorID,
		Message:            r.Message,
		TopUpTransactionID: r.TopUpTransactionID,
		ResubmitIntentID:   r.ResubmitIntentID,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
