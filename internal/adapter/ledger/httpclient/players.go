package httpclient

import (
	"context"
	"net/url"

	"github.com/iho/cashdesk/internal/domain"
)

// GetPlayer reads a player profile.
func (c *Client) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	var out playerWire
	err := c.read(ctx, request{
		op:       "get_player",
		path:     "/v1/players/" + url.PathEscape(id),
		notFound: domain.ErrPlayerNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// LookupByPhone resolves a normalized mobile number to a player.
func (c *Client) LookupByPhone(ctx context.Context, phone string) (*domain.Player, error) {
	var out playerWire
	err := c.read(ctx, request{
		op:       "lookup_player",
		path:     "/v1/players?phone=" + url.QueryEscape(phone),
		notFound: domain.ErrPlayerNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (w playerWire) toDomain() *domain.Player {
	return &domain.Player{
		ID:            w.ID,
		Name:          w.Name,
		Phone:         w.Phone,
		IsHousePlayer: w.IsHousePlayer,
	}
}
