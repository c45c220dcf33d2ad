package common

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func node() *snowflake.Node {
	snowflakeOnce.Do(func() {
		var err error
		snowflakeNode, err = snowflake.NewNode(rand.Int63n(1023))
		if err != nil {
			panic(err)
		}
	})
	return snowflakeNode
}

// UUIDint64 returns a snowflake int64 id.
func UUIDint64() int64 {
	return node().Generate().Int64()
}

// UUID returns a random uuid string, used for opaque tokens.
func UUID() string {
	return uuid.NewString()
}

// GetSecretSalt returns the hash salt, overridable by environment.
func GetSecretSalt() string {
	salt := os.Getenv("TOUGHSTORE_SECRET_SALT")
	if salt == "" {
		salt = "toughstore"
	}
	return salt
}

// Sha256HashWithSalt hashes value with the given salt.
func Sha256HashWithSalt(value, salt string) string {
	h := sha256.New()
	h.Write([]byte(value + salt))
	return hex.EncodeToString(h.Sum(nil))
}

func IfEmptyStr(src string, defval string) string {
	if src == "" {
		return defval
	}
	return src
}
