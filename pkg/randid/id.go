// Package randid generates short random identifiers.
package randid

import "crypto/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random id of the given length drawn from [a-z0-9].
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)
	// crypto/rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf)
}
