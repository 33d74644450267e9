// Package password hashes and verifies user passwords with bcrypt.
//
// Digests are self-describing: the algorithm version, cost and salt are
// embedded in the digest, so Verify needs nothing else. Hashing is
// deliberately expensive and should stay off latency sensitive paths.
package password

import (
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used by Hash.
const DefaultCost = bcrypt.DefaultCost

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

// digestLength is the size of an encoded bcrypt digest: a 7 byte
// "$2a$10$" header followed by 53 bytes of salt and hash.
const (
	digestLength = 60
	headerLength = 7
)

var (
	// ErrInvalidCredentialFormat indicates that a stored digest is malformed.
	ErrInvalidCredentialFormat = errors.New("invalid credential format")

	// ErrPasswordTooLong indicates a password longer than MaxLength bytes.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher for the given cost. Costs outside the range
// bcrypt supports are replaced by DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{Cost: cost}
}

var defaultHasher = NewHasher(DefaultCost)

// Hash returns a salted bcrypt digest of plain. Every call uses a fresh
// salt, so hashing the same password twice yields different digests.
func (h *Hasher) Hash(plain string) ([]byte, error) {
	if len(plain) > MaxLength {
		return nil, ErrPasswordTooLong
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return digest, nil
}

// Verify reports whether plain matches digest. A mismatch returns false with
// a nil error; a digest that cannot be parsed returns an error wrapping
// ErrInvalidCredentialFormat.
func (h *Hasher) Verify(digest []byte, plain string) (bool, error) {
	if err := checkDigest(digest); err != nil {
		return false, err
	}
	// bcrypt ignores bytes past MaxLength; such a password was never hashed here.
	if len(plain) > MaxLength {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword(digest, []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case isFormatError(err):
		return false, fmt.Errorf("%w: %v", ErrInvalidCredentialFormat, err)
	default:
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
}

// Cost returns the work factor embedded in digest.
func Cost(digest []byte) (int, error) {
	cost, err := bcrypt.Cost(digest)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCredentialFormat, err)
	}
	return cost, nil
}

// checkDigest rejects digests that bcrypt would otherwise accept or report
// as a plain mismatch: wrong length, or salt and hash outside bcrypt's
// base64 alphabet.
func checkDigest(digest []byte) error {
	if _, err := Cost(digest); err != nil {
		return err
	}
	if len(digest) != digestLength {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidCredentialFormat, digestLength, len(digest))
	}
	for i, c := range digest[headerLength:] {
		if !isBcryptBase64(c) {
			return fmt.Errorf("%w: invalid character %q at offset %d", ErrInvalidCredentialFormat, c, headerLength+i)
		}
	}
	return nil
}

func isBcryptBase64(c byte) bool {
	return c == '.' || c == '/' ||
		('A' <= c && c <= 'Z') ||
		('a' <= c && c <= 'z') ||
		('0' <= c && c <= '9')
}

func isFormatError(err error) bool {
	if errors.Is(err, bcrypt.ErrHashTooShort) {
		return true
	}
	var versionErr bcrypt.HashVersionTooNewError
	var prefixErr bcrypt.InvalidHashPrefixError
	var costErr bcrypt.InvalidCostError
	var saltErr base64.CorruptInputError
	return errors.As(err, &versionErr) ||
		errors.As(err, &prefixErr) ||
		errors.As(err, &costErr) ||
		errors.As(err, &saltErr)
}

// Hash hashes plain with DefaultCost.
func Hash(plain string) ([]byte, error) {
	return defaultHasher.Hash(plain)
}

// Verify checks plain against digest using the parameters embedded in it.
func Verify(digest []byte, plain string) (bool, error) {
	return defaultHasher.Verify(digest, plain)
}
