package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the at-rest encryption key from the
// operator-supplied state secret. The secret is a long-lived deployment
// value, so a fixed application-scoped salt is sufficient: the goal is
// key stretching, not per-record uniqueness.
const (
	// Argon2Time - number of iterations (time cost)
	Argon2Time = 1
	// Argon2Memory - memory in KB (64MB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - parallelism
	Argon2Threads = 4
	// KeyLen - derived key length in bytes (AES-256)
	KeyLen = 32
)

// keySalt scopes derived keys to this application and key version.
// Changing it invalidates all previously sealed records.
var keySalt = []byte("gearframe/tokens/v1")

// DeriveKey derives a 32-byte encryption key from the state secret
// using Argon2id.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("state secret cannot be empty")
	}

	return argon2.IDKey([]byte(secret), keySalt, Argon2Time, Argon2Memory, Argon2Threads, KeyLen), nil
}
