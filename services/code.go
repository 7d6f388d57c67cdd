package services

import (
	"context"
	"crypto/rand"
	"math/big"

	"shorturl/repository"
)

// Case-sensitive alphanumeric alphabet, 62 characters.
const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// allocateCode draws random codes until one is unused. The store's unique
// constraint remains the authoritative backstop for allocation races; this
// check only keeps collisions rare. Past maxAttempts collisions we give up
// rather than loop forever.
func allocateCode(ctx context.Context, links repository.Links, length, maxAttempts int) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code, err := generateCode(length)
		if err != nil {
			return "", err
		}
		inUse, err := links.CodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
