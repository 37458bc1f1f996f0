package pagination_test

import (
	"testing"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	journalDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 16, 10, 30, 45, 123456789, time.UTC)

	token := pagination.EncodeToken(journalDate, createdAt)
	gotDate, gotCreated, err := pagination.DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, journalDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	cases := map[string]string{
		"not base64":        "!!!not-base64!!!",
		"missing separator": "bm8tc2VwYXJhdG9y", // "no-separator"
		"bad timestamps":    "YWJjfGRlZg==",     // "abc|def"
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := pagination.DecodeToken(token)
			assert.Error(t, err)
		})
	}
}
