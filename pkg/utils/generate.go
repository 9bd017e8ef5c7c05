package utils

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const stayIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const StayIDSuffixLength = 6

// GenerateStayID returns "{roomNumber}-{6 lowercase alphanumerics}".
// Uniqueness is checked by the caller.
func GenerateStayID(roomNumber string) string {
	var b strings.Builder
	b.Grow(len(roomNumber) + 1 + StayIDSuffixLength)
	b.WriteString(roomNumber)
	b.WriteByte('-')
	for i := 0; i < StayIDSuffixLength; i++ {
		b.WriteByte(stayIDAlphabet[rand.Intn(len(stayIDAlphabet))])
	}
	return b.String()
}

func GenerateBlockID() string {
	return uuid.NewString()[:8]
}

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}
