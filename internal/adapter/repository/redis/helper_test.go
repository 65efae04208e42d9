package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	infraredis "github.com/iho/cashdesk/internal/infrastructure/redis"
)

// startMiniredis runs an in-process server and connects to it through the
// same constructor the server binary uses.
func startMiniredis(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := infraredis.NewClient(context.Background(), "redis://"+srv.Addr())
	require.NoError(t, err)

	return client, srv
}
