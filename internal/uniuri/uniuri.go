package uniuri

import (
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// StdLen gives ~95 bits of entropy with StdChars.
	StdLen = 16
	// SessionLen gives ~190 bits of entropy with StdChars.
	SessionLen = 32

	byteRange = 256
)

// StdChars is the alphabet of generated ids.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// ErrCharset is returned for alphabets shorter than 2 or longer than 256 characters.
var ErrCharset = errors.New("uniuri: alphabet must hold 2 to 256 characters")

// New returns a StdLen id of StdChars. It panics if the system random source fails.
func New() string {
	return MustNewLen(StdLen)
}

// MustNewLen returns an id of length characters from StdChars. It panics if the
// system random source fails.
func MustNewLen(length int) string {
	s, err := NewLenChars(length, StdChars)
	if err != nil {
		panic(err)
	}

	return s
}

// NewLenChars returns a random string of length drawn uniformly from chars.
// Bytes that would bias the modulo are rejected and redrawn.
func NewLenChars(length int, chars []byte) (string, error) {
	n := len(chars)
	if n < 2 || n > byteRange {
		return "", ErrCharset
	}

	limit := byteRange - (byteRange % n) // accept bytes below limit only
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/4+1)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("uniuri: read random bytes: %w", err)
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// Valid reports whether s could have been produced by NewLenChars(length, StdChars).
func Valid(s string, length int) bool {
	if len(s) != length {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}

	return true
}
