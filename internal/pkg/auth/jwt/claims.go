package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for the
// game server. It includes standard claims required by the JWT specification
// and the custom claims identifying a player across reconnects.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the system-generated guest identifier of the player. All game state
	// (active room membership, turn ownership, lives) is keyed by this value.
	ID string `json:"id"`

	// Name is the display name the player picked when the session was issued.
	Name string `json:"name"`

	// UserType defines the role of the participant. Only "guest" is issued today,
	// the field exists so registered accounts can be added without a token format change.
	UserType string `json:"user_type"`
}
