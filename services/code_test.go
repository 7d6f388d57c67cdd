package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorturl/repository"
)

func TestGenerateCode_LengthAndAlphabet(t *testing.T) {
	for _, length := range []int{6, 8, 10} {
		for i := 0; i < 100; i++ {
			code, err := generateCode(length)
			require.NoError(t, err)
			assert.Len(t, code, length)
			for _, ch := range code {
				assert.True(t, strings.ContainsRune(codeAlphabet, ch), "unexpected character %q in %q", ch, code)
			}
		}
	}
}

func TestGenerateCode_NoEasyCollisions(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := generateCode(8)
		require.NoError(t, err)
		assert.False(t, seen[code], "collision on %q after %d draws", code, i)
		seen[code] = true
	}
}

func TestAllocateCode_SkipsTakenCodes(t *testing.T) {
	store := repository.NewMemoryStore()
	links := store.Links()

	code, err := allocateCode(context.Background(), links, 8, 10)
	require.NoError(t, err)
	assert.Len(t, code, 8)

	inUse, err := links.CodeInUse(context.Background(), code)
	require.NoError(t, err)
	assert.False(t, inUse)
}

// alwaysTaken reports every candidate code as already in use.
type alwaysTaken struct {
	repository.Links
	attempts int
}

func (a *alwaysTaken) CodeInUse(ctx context.Context, code string) (bool, error) {
	a.attempts++
	return true, nil
}

func TestAllocateCode_GivesUpAfterMaxAttempts(t *testing.T) {
	links := &alwaysTaken{}

	_, err := allocateCode(context.Background(), links, 8, 10)
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Equal(t, 10, links.attempts)
}
