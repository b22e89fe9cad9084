// internal/utils/cart_token.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	cartTokenLength  = 32
	cartTokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var cartTokenAlphabetSize = big.NewInt(int64(len(cartTokenCharset)))

// GenerateCartToken issues the opaque token a guest browser sends back in
// X-Cart-Token to find its cart.
func GenerateCartToken() (string, error) {
	b := make([]byte, cartTokenLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, cartTokenAlphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = cartTokenCharset[n.Int64()]
	}
	return string(b), nil
}

// IsCartToken reports whether token has the shape GenerateCartToken produces.
func IsCartToken(token string) bool {
	if len(token) != cartTokenLength {
		return false
	}
	for _, r := range token {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
