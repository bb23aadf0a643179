package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
)

const defaultHashSalt = "default-salt-change-in-production"

var (
	hashSalt   = defaultHashSalt
	hashSaltMu sync.RWMutex
)

// InitHashSalt loads the salt used for privacy hashes from LOG_HASH_SALT.
// The built-in default is kept when the variable is unset.
func InitHashSalt() {
	if salt := os.Getenv("LOG_HASH_SALT"); salt != "" {
		setHashSalt(salt)
	}
}

// InitHashSaltForTesting sets an explicit salt.
func InitHashSaltForTesting(salt string) {
	setHashSalt(salt)
}

func setHashSalt(salt string) {
	hashSaltMu.Lock()
	hashSalt = salt
	hashSaltMu.Unlock()
}

func hashWithSalt(value string) string {
	hashSaltMu.RLock()
	salt := hashSalt
	hashSaltMu.RUnlock()

	hash := sha256.Sum256([]byte(value + ":" + salt))
	return hex.EncodeToString(hash[:])[:8]
}

// HashUserID creates a privacy-preserving hash of a user ID.
// This allows tracking user actions without exposing actual user IDs.
func HashUserID(userID int64) string {
	return hashWithSalt(fmt.Sprintf("%d", userID))
}

// HashUsername creates a privacy-preserving hash of a login name.
func HashUsername(username string) string {
	return hashWithSalt("u:" + strings.ToLower(username))
}

// SanitizeDescription removes or truncates sensitive information from descriptions.
// This redacts the description but preserves length information for debugging.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}

	words := strings.Fields(desc)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(desc))
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	// For short text, show length only
	runes := []rune(text)
	if len(runes) <= 10 {
		return fmt.Sprintf("<%d chars>", len(runes))
	}

	return fmt.Sprintf("%s...<%d chars>", string(runes[:3]), len(runes))
}
