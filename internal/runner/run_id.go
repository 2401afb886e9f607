package runner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

const runIDSuffixBytes = 6

// NewRunID returns a sortable run identifier: UTC start time plus random hex.
func NewRunID() (string, error) {
	return NewRunIDWithRand(time.Now(), rand.Reader)
}

// NewRunIDWithRand draws the suffix from a random UUID read from r.
func NewRunIDWithRand(now time.Time, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("random reader is nil")
	}
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return FormatRunID(now, hex.EncodeToString(id[:runIDSuffixBytes])), nil
}

func FormatRunID(now time.Time, suffix string) string {
	return now.UTC().Format("20060102T150405Z") + "-" + suffix
}
