package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	c := Cursor{
		EntryDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 3, 5, 14, 30, 45, 123456789, time.UTC),
		EntryID:   "9b2f6c1e-0c4e-4f57-9a51-3f1f4d7f2a10",
	}

	token := Encode(c)
	assert.NotContains(t, token, "=")

	got, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestEncode_NormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2024, 3, 5, 17, 0, 0, 0, loc)

	got, err := Decode(Encode(Cursor{EntryDate: created, CreatedAt: created, EntryID: "e-1"}))
	require.NoError(t, err)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
}

func TestDecode_Invalid(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tokens := map[string]string{
		"not base64":       "this is not base64!",
		"not json":         enc("2024-03-05|2024-03-05"),
		"old version":      enc(`{"v":1,"d":"2024-03-05T00:00:00Z","c":"2024-03-05T00:00:00Z"}`),
		"missing created":  enc(`{"v":2,"d":"2024-03-05T00:00:00Z","i":"e-1"}`),
		"missing entry id": enc(`{"v":2,"d":"2024-03-05T00:00:00Z","c":"2024-03-05T00:00:00Z"}`),
		"bad time":         enc(`{"v":2,"d":"yesterday","c":"2024-03-05T00:00:00Z","i":"e-1"}`),
	}
	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
