package session

import (
	"crypto/rand"

	"github.com/onion-http/onion/errs"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const idLength = 32

// NewID returns a 32-character random id drawn from idAlphabet, hard
// to guess by construction since it is seeded from crypto/rand rather
// than a PRNG.
func NewID() (string, error) {
	raw := make([]byte, idLength)
	if _, err := rand.Read(raw); err != nil {
		return "", errs.New(ErrorIDGeneration, "reading random bytes", err)
	}
	out := make([]byte, idLength)
	for i, b := range raw {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(out), nil
}
