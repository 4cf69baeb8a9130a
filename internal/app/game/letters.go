/*
Package game contains the core logic for the word-chain city game: the
letter-chain rules, the session store for rooms and solitary sessions, the
per-room turn timer, and the orchestrator that drives both game modes from
inbound chat messages.

This file implements the letter-chain rule engine. It is pure: no state, no
side effects, total over all string inputs.
*/
package game

import (
	"strings"
	"unicode"
)

// Letters that have no valid continuation: no Russian city name starts with
// a soft sign, hard sign, or Ы. A city ending in one of them chains from its
// second-to-last letter instead.
const skippedTrailingLetters = "ЬЪЫ"

// Normalize prepares a raw player input for use as a city name: surrounding
// whitespace is trimmed, the first letter is uppercased and the rest
// lowercased, so that "мОсКвА " and "Москва" are the same city.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	runes := []rune(trimmed)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}

	return string(runes)
}

// EffectiveLastLetter returns the uppercase letter the next city must start
// with after name has been played. If the final letter is one of the skipped
// trailing letters, the second-to-last letter is used. A single-letter name
// yields its sole letter even when that letter is skipped. The zero rune is
// returned only for an empty name.
func EffectiveLastLetter(name string) rune {
	runes := []rune(name)
	if len(runes) == 0 {
		return 0
	}

	last := unicode.ToUpper(runes[len(runes)-1])
	if len(runes) > 1 && strings.ContainsRune(skippedTrailingLetters, last) {
		last = unicode.ToUpper(runes[len(runes)-2])
	}

	return last
}

// ValidContinuation reports whether candidate starts with the required
// letter, ignoring case. An empty candidate never continues a chain.
func ValidContinuation(candidate string, required rune) bool {
	runes := []rune(candidate)
	if len(runes) == 0 {
		return false
	}

	return unicode.ToUpper(runes[0]) == unicode.ToUpper(required)
}
