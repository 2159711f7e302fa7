package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashAll hashes several named inputs. Names and contents are both
// covered, so renaming a file changes the hash.
func HashAll(names []string, contents [][]byte) string {
	h := sha256.New()
	for i, name := range names {
		fmt.Fprintf(h, "%d:%s:%d:", len(name), name, len(contents[i]))
		h.Write(contents[i])
	}
	return hex.EncodeToString(h.Sum(nil))
}
