package dbretry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/memegrid/memegrid/internal/database/dbretry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTransient = errors.New("read tcp: connection reset by peer")
	errPermanent = errors.New("duplicate key value violates unique constraint")
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil error", err: nil, retryable: false},
		{name: "connection reset", err: errTransient, retryable: true},
		{name: "broken pipe", err: errors.New("write: broken pipe"), retryable: true},
		{name: "io timeout", err: errors.New("dial tcp: i/o timeout"), retryable: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, retryable: true},
		{name: "constraint violation", err: errPermanent, retryable: false},
		{name: "context canceled", err: context.Canceled, retryable: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.retryable, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestOperation(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		result, err := dbretry.Operation(context.Background(), func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errTransient
			}

			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := dbretry.Operation(context.Background(), func(context.Context) (int, error) {
			calls++
			return 0, errPermanent
		})

		require.ErrorIs(t, err, errPermanent)
		assert.Equal(t, 1, calls)
	})
}

func TestNoResult(t *testing.T) {
	t.Parallel()

	calls := 0
	err := dbretry.NoResult(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
