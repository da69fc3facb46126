// Package pagecursor encodes and decodes opaque page cursors
// A cursor is base64url JSON carrying an explicit kind tag so a token minted by one
// pagination strategy can never be read as the other
package pagecursor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Kind tags the pagination strategy a cursor was minted for
type Kind string

const (
	// KindDB is a keyset cursor for storage side ordering
	KindDB Kind = "db"
	// KindGlobal is a positional cursor for in memory ordering
	KindGlobal Kind = "global"
)

var (
	// ErrMalformed means the token is not base64 JSON of a known shape
	ErrMalformed = errors.New("pagecursor: malformed cursor")
	// ErrKindMismatch means the token decoded fine but belongs to the other strategy
	ErrKindMismatch = errors.New("pagecursor: cursor kind mismatch")
)

// DB resumes a storage ordered scan strictly after the keyed row
type DB struct {
	CreatedAt time.Time
	FactRowID string
	SubIndex  int
}

// Global resumes an in memory ordered scan immediately after TrackID
type Global struct {
	TrackID   string
	CreatedAt time.Time
}

// payload is the wire form, fields not used by a kind stay empty
type payload struct {
	Kind      Kind      `json:"k"`
	CreatedAt time.Time `json:"createdAt"`
	FactRowID string    `json:"factRowId,omitempty"`
	SubIndex  int       `json:"subIndex,omitempty"`
	TrackID   string    `json:"trackId,omitempty"`
}

// EncodeDB returns the opaque token for c
func EncodeDB(c DB) string {
	return encode(payload{Kind: KindDB, CreatedAt: c.CreatedAt.UTC(), FactRowID: c.FactRowID, SubIndex: c.SubIndex})
}

// EncodeGlobal returns the opaque token for c
func EncodeGlobal(c Global) string {
	return encode(payload{Kind: KindGlobal, CreatedAt: c.CreatedAt.UTC(), TrackID: c.TrackID})
}

// DecodeDB parses a token minted by EncodeDB
func DecodeDB(s string) (DB, error) {
	p, err := decode(s, KindDB)
	if err != nil {
		return DB{}, err
	}
	if p.FactRowID == "" || p.SubIndex < 0 || p.CreatedAt.IsZero() {
		return DB{}, ErrMalformed
	}
	return DB{CreatedAt: p.CreatedAt, FactRowID: p.FactRowID, SubIndex: p.SubIndex}, nil
}

// DecodeGlobal parses a token minted by EncodeGlobal
func DecodeGlobal(s string) (Global, error) {
	p, err := decode(s, KindGlobal)
	if err != nil {
		return Global{}, err
	}
	if p.TrackID == "" {
		return Global{}, ErrMalformed
	}
	return Global{TrackID: p.TrackID, CreatedAt: p.CreatedAt}, nil
}

// Peek reports the kind of a token without interpreting the rest
func Peek(s string) (Kind, error) {
	p, err := decode(s, "")
	if err != nil {
		return "", err
	}
	return p.Kind, nil
}

func encode(p payload) string {
	b, _ := json.Marshal(p) // fixed shape with no unsupported values
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string, want Kind) (payload, error) {
	var p payload
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return p, ErrMalformed
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return p, ErrMalformed
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, ErrMalformed
	}
	switch p.Kind {
	case KindDB, KindGlobal:
	default:
		return p, ErrMalformed
	}
	if want != "" && p.Kind != want {
		return p, ErrKindMismatch
	}
	return p, nil
}
