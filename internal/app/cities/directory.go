/*
Package cities implements the city knowledge base: an immutable in-memory
index over the cities of Russia, loaded once at startup from Wikipedia or
from a Postgres snapshot, plus the per-city info card fetcher.

The index satisfies the game's CityDirectory contract and is safe for
concurrent use because it is never mutated after construction.
*/
package cities

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"unicode"
)

// Entry is one known city: its canonical display name and the article URL
// its info card is fetched from.
type Entry struct {
	Name string
	URL  string
}

// InfoFetcher retrieves the rich description for a city article.
type InfoFetcher interface {
	CityInfo(url string) (string, error)
}

// Directory is the read-only city index.
type Directory struct {
	entries map[string]Entry // lowercase name -> entry
	fetcher InfoFetcher
}

// ErrEmptyDirectory is returned when a loader produced no usable entries;
// the server cannot serve any session without a directory.
var ErrEmptyDirectory = errors.New("cities: directory is empty")

// New builds a Directory from loaded entries. Display names are canonicalized
// (first letter upper, rest lower) so they compare equal to normalized player
// input.
func New(entries []Entry, fetcher InfoFetcher) (*Directory, error) {
	index := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		name := canonical(entry.Name)
		if name == "" {
			continue
		}
		index[strings.ToLower(name)] = Entry{Name: name, URL: entry.URL}
	}

	if len(index) == 0 {
		return nil, ErrEmptyDirectory
	}

	return &Directory{entries: index, fetcher: fetcher}, nil
}

// Len returns the number of indexed cities.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the index contents, for snapshotting.
func (d *Directory) Entries() []Entry {
	out := make([]Entry, 0, len(d.entries))
	for _, entry := range d.entries {
		out = append(out, entry)
	}
	return out
}

// Lookup reports whether name is a known city, case-insensitively.
func (d *Directory) Lookup(name string) bool {
	_, ok := d.entries[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// RandomUnused returns a uniformly random city starting with letter for
// which used reports false, or ok=false when none remains.
func (d *Directory) RandomUnused(letter rune, used func(name string) bool) (string, bool) {
	prefix := string(unicode.ToLower(letter))

	var candidates []string
	for key, entry := range d.entries {
		if strings.HasPrefix(key, prefix) && !used(entry.Name) {
			candidates = append(candidates, entry.Name)
		}
	}

	if len(candidates) == 0 {
		return "", false
	}

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	if err != nil {
		// crypto/rand failure leaves no sound way to pick; treat as exhausted.
		return "", false
	}

	return candidates[idx.Int64()], true
}

// Describe fetches the info card for a known city. Unknown names and fetch
// failures are reported as errors; the caller decides how to surface them.
func (d *Directory) Describe(name string) (string, error) {
	entry, ok := d.entries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", errors.New("cities: unknown city " + name)
	}

	return d.fetcher.CityInfo(entry.URL)
}

// canonical trims a name and uppercases its first letter, lowercasing the
// rest, matching the normalization applied to player input.
func canonical(raw string) string {
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
