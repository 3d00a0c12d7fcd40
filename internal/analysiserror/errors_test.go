package analysiserror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceError(t *testing.T) {
	tests := []struct {
		name     string
		err      *SourceError
		expected string
	}{
		{
			name:     "with status",
			err:      &SourceError{Operation: "fetch transactions", StatusCode: 401, Err: ErrUnauthorized},
			expected: "source unavailable: fetch transactions (status 401): " + ErrUnauthorized.Error(),
		},
		{
			name:     "transport failure",
			err:      &SourceError{Operation: "fetch categories", Retryable: true, Err: errors.New("connection reset")},
			expected: "source unavailable: fetch categories: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSourceError_UnwrapAndRetryable(t *testing.T) {
	err := fmt.Errorf("run aborted: %w", &SourceError{Operation: "fetch transactions", Retryable: true, Err: ErrRateLimited})

	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.True(t, IsRetryable(err))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestMalformedRecordError(t *testing.T) {
	missing := &MalformedRecordError{Kind: "transaction", Index: 3, ID: "tx-1", Field: "amount"}
	assert.Equal(t, "malformed transaction #3 (tx-1): missing field amount", missing.Error())

	cause := errors.New("bad month")
	unparsable := &MalformedRecordError{Kind: "transaction", Index: 0, Field: "date", Value: "2024-13-01", Err: cause}
	assert.Equal(t, "malformed transaction #0: field date='2024-13-01': bad month", unparsable.Error())
	assert.True(t, errors.Is(unparsable, cause))
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Key: "analysis.start_date", Reason: "must not be after end_date"}
	assert.Equal(t, "invalid configuration analysis.start_date: must not be after end_date", err.Error())
}
