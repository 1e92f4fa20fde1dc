package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/adanyl0v/go-task-tracker/internal/config"
)

var errUnknownPasswordHash = errors.New("unknown password hash format")

func hashPassword(hasher, password string) (string, error) {
	switch hasher {
	case config.PasswordHasherArgon2id:
		return argon2id.CreateHash(password, argon2id.DefaultParams)
	case config.PasswordHasherBcrypt:
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	default:
		return "", fmt.Errorf("unknown password hasher: %q", hasher)
	}
}

// comparePassword detects the algorithm from the stored hash, so users whose
// hashes were produced by a different hasher can still log in.
func comparePassword(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return argon2id.ComparePasswordAndHash(password, hash)
	case strings.HasPrefix(hash, "$2a$"),
		strings.HasPrefix(hash, "$2b$"),
		strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, errUnknownPasswordHash
	}
}

// dummyPasswordHash lazily hashes a throwaway password with the configured
// hasher. Logins for unknown emails compare against it so that they cost as
// much as a wrong password.
type dummyPasswordHash struct {
	hash func() (string, error)
}

func newDummyPasswordHash(hasher string) *dummyPasswordHash {
	return &dummyPasswordHash{
		hash: sync.OnceValues(func() (string, error) {
			return hashPassword(hasher, "not-a-real-password")
		}),
	}
}

// compare always reports a mismatch.
func (d *dummyPasswordHash) compare(password string) error {
	hash, err := d.hash()
	if err != nil {
		return err
	}
	_, err = comparePassword(password, hash)
	return err
}
