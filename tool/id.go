package tool

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateEntryID returns a fresh identifier for a selected file. Every call
// yields a new id, so the same file selected twice gets two entries.
func GenerateEntryID() string {
	return GenerateRandomUUID()
}

// GenerateBatchID returns a short alphanumeric ID (e.g. 8 chars) for batch lookups.
// Shorter than UUID so it is easier to read in logs and URLs.
func GenerateBatchID() string {
	b := make([]byte, 4) // 4 bytes = 8 hex chars
	if _, err := rand.Read(b); err != nil {
		return GenerateRandomUUID()[:8] // fallback
	}
	return hex.EncodeToString(b)
}
