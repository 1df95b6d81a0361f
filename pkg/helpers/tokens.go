package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// Redis keys

func KeySession(sid string) string { return "account:session:" + sid }

func KeyPermissions(accountID string) string { return "account:perms:" + accountID }

func KeyVerifyToken(token string) string { return "account:verify:" + token }

func KeyResetToken(token string) string { return "account:reset:" + token }

// GenToken returns a random 32-byte token, hex encoded, for email links.
func GenToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
