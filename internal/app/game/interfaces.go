package game

// Sender is the outbound side of the chat transport. Delivery is
// fire-and-forget: the game never retries and never learns whether the player
// actually received the text. rich enables markup rendering for info cards.
type Sender interface {
	Send(playerID string, text string, rich bool)

	// SendError delivers a rejected input to the offending player together
	// with the business error code so clients can react programmatically.
	SendError(playerID string, code int, message string)
}

// CityDirectory is the read-only city knowledge base. Implementations must be
// safe for concurrent use; the game never mutates the directory.
type CityDirectory interface {
	// Lookup reports whether name is a known city after normalization.
	Lookup(name string) bool

	// RandomUnused returns a uniformly random city whose name starts with the
	// required letter and for which used reports false. ok is false when no
	// such city remains.
	RandomUnused(letter rune, used func(name string) bool) (name string, ok bool)

	// Describe returns the rich info card for a known city. The underlying
	// fetch may fail transiently; the game surfaces such failures to the
	// player without touching session state.
	Describe(name string) (string, error)
}
