/*
Package randx provides cryptographically secure random identifiers: fixed-length
room codes, guest player IDs, and UUID message IDs.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// RoomCodeChars is the alphabet room codes are drawn from. Uppercase-only
	// so codes survive being typed, spoken, or pasted in either case.
	RoomCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// RoomCodeLength is the fixed length of a room code.
	RoomCodeLength = 6

	// GuestIDPrefix is the prefix of server-issued guest player IDs.
	GuestIDPrefix = "guest_"

	// guestIDRawLength is the length of the random part of a guest ID.
	guestIDRawLength = 10
)

// randomString draws length characters from alphabet using crypto/rand.
func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	result := make([]byte, length)

	for i := range length {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// RoomCode generates a fresh room code of RoomCodeLength characters.
func RoomCode() (string, error) {
	return randomString(RoomCodeChars, RoomCodeLength)
}

// NormalizeRoomCode uppercases and trims a player-entered room code, so codes
// are case-insensitive on input.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidRoomCode reports whether code has the exact room code shape.
func IsValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for _, char := range code {
		if !strings.ContainsRune(RoomCodeChars, char) {
			return false
		}
	}

	return true
}

// GuestID generates a fresh guest player identifier.
func GuestID() (string, error) {
	raw, err := randomString(RoomCodeChars, guestIDRawLength)
	if err != nil {
		return "", err
	}
	return GuestIDPrefix + strings.ToLower(raw), nil
}

// MessageID generates a UUID v4 string used as a transport message identifier.
func MessageID() string {
	return uuid.New().String()
}
