// Package pagination encodes keyset cursors into opaque page tokens.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidToken is returned for tokens not produced by Encode.
var ErrInvalidToken = errors.New("invalid page token")

const tokenVersion = 2

// Cursor is the position of the last entry on a page. Entries are ordered by
// (EntryDate, CreatedAt, EntryID) descending.
type Cursor struct {
	EntryDate time.Time
	CreatedAt time.Time
	EntryID   string
}

type wireCursor struct {
	V int       `json:"v"`
	D time.Time `json:"d"`
	C time.Time `json:"c"`
	I string    `json:"i"`
}

// Encode returns the URL-safe token for c.
func Encode(c Cursor) string {
	raw, _ := json.Marshal(wireCursor{V: tokenVersion, D: c.EntryDate.UTC(), C: c.CreatedAt.UTC(), I: c.EntryID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token produced by Encode.
func Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: not base64", ErrInvalidToken)
	}
	var w wireCursor
	if err := json.Unmarshal(raw, &w); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if w.V != tokenVersion {
		return Cursor{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidToken, w.V)
	}
	if w.C.IsZero() || w.I == "" {
		return Cursor{}, fmt.Errorf("%w: incomplete cursor", ErrInvalidToken)
	}
	return Cursor{EntryDate: w.D, CreatedAt: w.C, EntryID: w.I}, nil
}
