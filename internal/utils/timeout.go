package utils

import (
	"context"
	"time"
)

const (
	// DefaultDBTimeout bounds a single repository statement.
	DefaultDBTimeout = 5 * time.Second

	// TxTimeout bounds a whole transaction. Checkout holds row locks on every
	// product in the cart until commit.
	TxTimeout = 15 * time.Second
)

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}

func WithTxTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, TxTimeout)
}
