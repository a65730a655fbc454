package utils

import (
	"crypto/rand"
	"math/big"
)

const urlTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewShareURL returns a 16-character random token used as the shareable
// URL segment for teams and projects.
func NewShareURL() (string, error) {
	b := make([]byte, 16)
	max := big.NewInt(int64(len(urlTokenAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = urlTokenAlphabet[n.Int64()]
	}
	return string(b), nil
}
