package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	UserNumberPrefix = "USER"
	numberAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	numberLength     = 10
)

// NewUserNumber returns a business identifier such as "USER7K2Q9ZB1XM".
func NewUserNumber() (string, error) {
	return NewNumber(UserNumberPrefix)
}

func NewNumber(prefix string) (string, error) {
	buf := make([]byte, numberLength)
	max := big.NewInt(int64(len(numberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate number: %w", err)
		}
		buf[i] = numberAlphabet[n.Int64()]
	}
	return prefix + string(buf), nil
}
