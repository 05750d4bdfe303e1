package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var codeCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// RandomCode returns an uppercase alphanumeric string of the given length.
// Used for order number suffixes.
func RandomCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	max := big.NewInt(int64(len(codeCharset)))
	out := make([]rune, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random code: %w", err)
		}
		out[i] = codeCharset[n.Int64()]
	}
	return string(out), nil
}
