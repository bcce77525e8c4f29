package utils

import (
	"math/rand"
	"time"
)

const confirmationCodeLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateConfirmationCode returns the short code printed on booking
// confirmations. Codes are random, not sequential, so they cannot be
// guessed from a neighbor's email.
func GenerateConfirmationCode() string {
	b := make([]byte, confirmationCodeLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}
	return string(b)
}
