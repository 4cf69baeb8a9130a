/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 21xx: Room Lifecycle Errors
const (
	// ErrRoomNotFound indicates that no active room carries the requested code.
	ErrRoomNotFound = 2101

	// ErrRoomFull indicates that the room being joined already has two players.
	ErrRoomFull = 2102

	// ErrAlreadyInGame indicates that the player tried to create or join a room
	// while already seated in an active one.
	ErrAlreadyInGame = 2103
)

// 22xx: Move Validation Errors
const (
	// ErrCityTooShort indicates a candidate city name shorter than two letters.
	ErrCityTooShort = 2201

	// ErrCityAlreadyUsed indicates the candidate was already played this session.
	ErrCityAlreadyUsed = 2202

	// ErrWrongLetter indicates the candidate does not start with the required letter.
	ErrWrongLetter = 2203

	// ErrCityUnknown indicates the candidate is not in the city directory.
	ErrCityUnknown = 2204
)

// 23xx: Turn Discipline Errors
const (
	// ErrSideChannelExhausted indicates the player already spent their one
	// allowed message during the opponent's current turn.
	ErrSideChannelExhausted = 2301
)

// 24xx: Upstream Errors
const (
	// ErrCityInfoUnavailable indicates the directory's detail fetch for a known
	// city failed transiently.
	ErrCityInfoUnavailable = 2401
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing or invalid identity token.
	ErrUnauthorized = 3001

	// ErrSessionKicked indicates that the current client connection has been terminated.
	ErrSessionKicked = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
