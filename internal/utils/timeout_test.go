package utils_test

import (
	"context"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDBTimeout(t *testing.T) {
	ctx, cancel := utils.WithDBTimeout(t.Context())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(utils.DefaultDBTimeout), deadline, time.Second)
}

func TestWithTxTimeout(t *testing.T) {
	t.Run("Success - Fresh deadline", func(t *testing.T) {
		ctx, cancel := utils.WithTxTimeout(t.Context())
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(utils.TxTimeout), deadline, time.Second)
	})

	t.Run("Success - Tighter parent deadline wins", func(t *testing.T) {
		parent, cancelParent := context.WithTimeout(t.Context(), time.Second)
		defer cancelParent()

		ctx, cancel := utils.WithTxTimeout(parent)
		defer cancel()

		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
	})
}
