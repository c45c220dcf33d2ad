package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDint64(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.Greater(t, id, int64(0))
		assert.False(t, seen[id], "duplicate snowflake id")
		seen[id] = true
	}
}

func TestUUID(t *testing.T) {
	a := UUID()
	b := UUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestSha256HashWithSalt(t *testing.T) {
	salt := GetSecretSalt()
	h1 := Sha256HashWithSalt("toughstore", salt)
	h2 := Sha256HashWithSalt("toughstore", salt)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, Sha256HashWithSalt("other", salt))
}

func TestIfEmptyStr(t *testing.T) {
	assert.Equal(t, "fallback", IfEmptyStr("", "fallback"))
	assert.Equal(t, "value", IfEmptyStr("value", "fallback"))
}
