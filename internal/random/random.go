package random

import (
	"crypto/rand"
	"github.com/myrjola/dossier/internal/errors"
)

const allowedLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// rejectAbove is the largest multiple of len(allowedLetters) that fits in a byte. Bytes at or above it are
// discarded so that every letter is equally likely.
const rejectAbove = 256 - 256%len(allowedLetters)

// Letters returns n cryptographically random ASCII letters, e.g., for CSP nonces.
func Letters(n uint) (string, error) {
	letters := make([]byte, 0, n)
	buf := make([]byte, n+n/4+1) //nolint:mnd // a quarter extra covers the expected rejections.
	for uint(len(letters)) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(err, "read random bytes")
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			letters = append(letters, allowedLetters[int(b)%len(allowedLetters)])
			if uint(len(letters)) == n {
				break
			}
		}
	}
	return string(letters), nil
}
