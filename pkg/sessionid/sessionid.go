package sessionid

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// MinLength is the smallest identifier length this package will generate.
// Anything shorter leaves too few random bytes to make identifiers
// unguessable, so it is treated as a configuration error rather than a
// runtime condition.
const MinLength = 256

var (
	// ErrLengthTooShort is returned when the requested length is below MinLength.
	ErrLengthTooShort = errors.New("session id length below minimum")
	// ErrRandomSource is returned when the system's random source fails.
	ErrRandomSource = errors.New("failed to read random bytes")
)

// New produces a session identifier of exactly length characters from a
// cryptographically strong random source, encoded with the base64url
// alphabet. Identifiers are opaque: they are only ever compared for
// equality, never parsed.
func New(length int) (string, error) {
	if length < MinLength {
		return "", ErrLengthTooShort
	}

	// One extra decoded byte guarantees the encoding is at least length
	// characters before truncation.
	raw := make([]byte, base64.RawURLEncoding.DecodedLen(length)+1)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrRandomSource, err)
	}

	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}

// Valid reports whether id has the expected length and uses only the
// base64url alphabet. It is a cheap screen for transport-supplied values
// before they reach the store; it says nothing about whether a session
// exists.
func Valid(id string, length int) bool {
	if len(id) != length {
		return false
	}
	for _, c := range []byte(id) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
