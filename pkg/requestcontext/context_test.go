package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestID(ctx))
}

func TestNow(t *testing.T) {
	pinned := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	ctx := WithTime(context.Background(), pinned)
	assert.True(t, pinned.Equal(Now(ctx)))

	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before), "falls back to the wall clock")
}

func TestKeysDoNotCollide(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithTime(ctx, time.Unix(0, 0))

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.True(t, time.Unix(0, 0).Equal(Now(ctx)))
}
