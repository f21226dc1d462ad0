package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/dverbovy/tabstock/internal/common"
)

// AdminTokenValidity is how long an issued admin token stays usable.
const AdminTokenValidity = 24 * time.Hour

// HashPin derives an argon2id digest of the admin PIN. The digest, not the
// PIN, lives in server configuration.
func HashPin(pin string, salt []byte) string {
	digest := argon2.IDKey([]byte(pin), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(digest)
}

// VerifyPin re-derives the digest and compares in constant time.
func VerifyPin(pin string, salt []byte, digestHex string) bool {
	stored, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}
	derived := argon2.IDKey([]byte(pin), salt, 1, 64*1024, 4, 32)
	return hmac.Equal(derived, stored)
}

func signAdminToken(sessionID string, expiresAt int64, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s:%d", sessionID, expiresAt)
	return hex.EncodeToString(mac.Sum(nil))
}

// IssueAdminToken builds the self-contained bearer token
// sessionId:expiresAt:hmacHex. The token itself is the full session state.
func IssueAdminToken(secret []byte, now time.Time) string {
	sessionID := uuid.NewString()
	expiresAt := now.Add(AdminTokenValidity).UnixMilli()
	return fmt.Sprintf("%s:%d:%s", sessionID, expiresAt, signAdminToken(sessionID, expiresAt, secret))
}

// ValidateAdminToken re-checks signature and expiry. The signature is
// verified before the expiry so a forged timestamp cannot pass.
func ValidateAdminToken(secret []byte, token string, now time.Time) error {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return common.ErrInvalidToken
	}
	expiresAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return common.ErrInvalidToken
	}

	expected := signAdminToken(parts[0], expiresAt, secret)
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return common.ErrInvalidToken
	}
	if now.UnixMilli() > expiresAt {
		return common.ErrTokenExpired
	}
	return nil
}
