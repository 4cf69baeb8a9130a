package cities

import (
	"errors"
	"testing"
)

// fakeFetcher is a test double for the InfoFetcher interface.
type fakeFetcher struct {
	info map[string]string
	err  error
}

func (f *fakeFetcher) CityInfo(url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.info[url], nil
}

func testEntries() []Entry {
	return []Entry{
		{Name: "Москва", URL: "https://example.org/moskva"},
		{Name: "АСТАНА", URL: "https://example.org/astana"},
		{Name: "  тверь  ", URL: "https://example.org/tver"},
		{Name: "", URL: "https://example.org/empty"},
	}
}

func TestNewCanonicalizesNames(t *testing.T) {
	dir, err := New(testEntries(), &fakeFetcher{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if dir.Len() != 3 {
		t.Fatalf("expected 3 cities (empty name dropped), got %d", dir.Len())
	}

	for _, name := range []string{"Москва", "москва", "АСТАНА", "Тверь", " тверь "} {
		if !dir.Lookup(name) {
			t.Errorf("Lookup(%q) = false, want true", name)
		}
	}
	if dir.Lookup("Казань") {
		t.Error("Lookup should not find an unknown city")
	}
}

func TestNewRejectsEmptyInput(t *testing.T) {
	if _, err := New(nil, &fakeFetcher{}); !errors.Is(err, ErrEmptyDirectory) {
		t.Fatalf("expected ErrEmptyDirectory, got %v", err)
	}
	if _, err := New([]Entry{{Name: "   "}}, &fakeFetcher{}); !errors.Is(err, ErrEmptyDirectory) {
		t.Fatalf("expected ErrEmptyDirectory for blank names, got %v", err)
	}
}

func TestRandomUnused(t *testing.T) {
	dir, err := New(testEntries(), &fakeFetcher{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	noneUsed := func(string) bool { return false }

	name, ok := dir.RandomUnused('А', noneUsed)
	if !ok || name != "Астана" {
		t.Fatalf("RandomUnused('А') = %q, %v; want Астана", name, ok)
	}

	// Case-insensitive on the letter.
	if name, ok := dir.RandomUnused('а', noneUsed); !ok || name != "Астана" {
		t.Fatalf("RandomUnused('а') = %q, %v; want Астана", name, ok)
	}

	// Exclusion via the used predicate.
	if _, ok := dir.RandomUnused('А', func(name string) bool { return name == "Астана" }); ok {
		t.Fatal("RandomUnused should report exhaustion when all matches are used")
	}

	if _, ok := dir.RandomUnused('Я', noneUsed); ok {
		t.Fatal("RandomUnused should report exhaustion for letters with no cities")
	}
}

func TestDescribe(t *testing.T) {
	fetcher := &fakeFetcher{info: map[string]string{
		"https://example.org/moskva": "<b>Москва</b> столица России",
	}}
	dir, err := New(testEntries(), fetcher)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	info, err := dir.Describe("москва")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if info != "<b>Москва</b> столица России" {
		t.Fatalf("unexpected info card: %q", info)
	}

	if _, err := dir.Describe("Казань"); err == nil {
		t.Fatal("Describe should fail for unknown cities")
	}

	fetcher.err = errors.New("upstream down")
	if _, err := dir.Describe("Москва"); err == nil {
		t.Fatal("Describe should surface fetch failures")
	}
}

func TestEntriesRoundTrip(t *testing.T) {
	dir, err := New(testEntries(), &fakeFetcher{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rebuilt, err := New(dir.Entries(), &fakeFetcher{})
	if err != nil {
		t.Fatalf("rebuilding from Entries failed: %v", err)
	}
	if rebuilt.Len() != dir.Len() {
		t.Fatalf("rebuilt directory has %d cities, want %d", rebuilt.Len(), dir.Len())
	}
}
