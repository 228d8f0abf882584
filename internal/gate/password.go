package gate

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// secret holds only the salted Argon2id digest of the shared password.
type secret struct {
	salt   []byte
	digest []byte
}

func newSecret(password string) (secret, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return secret{}, fmt.Errorf("generate salt: %w", err)
	}
	return secret{salt: salt, digest: derive(password, salt)}, nil
}

func derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

func (s secret) matches(candidate string) bool {
	return subtle.ConstantTimeCompare(s.digest, derive(candidate, s.salt)) == 1
}
