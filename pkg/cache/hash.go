package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "prefix:digest" cache key from arbitrary key components.
// The components are JSON-encoded and hashed, so option structs like
// SceneKeyOpts key on their full field set without hand-written formatting.
// The digest keeps its full 64 hex characters; scene keys must never collide
// across models sharing one redis or mongo backend.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 digest of data as a 64-character hex string.
// The serve path hashes the raw model bytes with this to scope scene keys,
// so swapping the model file rotates every key.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
