package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomToken returns a random alphanumeric token for MFA and
// password-reset codes.
func GenerateRandomToken(length int) string {
	token := make([]byte, length)
	max := big.NewInt(int64(len(tokenCharset)))
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			token[i] = tokenCharset[0]
			continue
		}
		token[i] = tokenCharset[n.Int64()]
	}
	return string(token)
}
