/*
Package handler provides HTTP handler functions for player session issuance.
*/
package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"goroda/internal/pkg/auth/jwt"
	"goroda/internal/pkg/errs"
	"goroda/internal/pkg/logx"
	"goroda/internal/pkg/randx"
	"goroda/internal/pkg/req"
	"goroda/internal/pkg/resp"
)

const maxPlayerNameRunes = 32

// SessionInput is the optional request body for session creation.
type SessionInput struct {
	Name string `json:"name"`
}

// HandleCreateSession issues a guest identity token. A caller presenting a
// still-valid token keeps its guest ID so game state survives reconnects;
// everyone else gets a fresh one.
func HandleCreateSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SessionInput
		if r.ContentLength > 0 {
			if customErr := req.BindJSON(r, &input); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		}

		name := strings.TrimSpace(input.Name)
		if utf8.RuneCountInString(name) > maxPlayerNameRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var playerID string
		if existing := jwt.GetPayloadFromContext(r); existing != nil {
			playerID = existing.ID
			if name == "" {
				name = existing.Name
			}
		} else {
			generated, err := randx.GuestID()
			if err != nil {
				logx.Error(err, "failed to generate guest ID")
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
			playerID = generated
		}

		payload := &jwt.Payload{
			ID:       playerID,
			Name:     name,
			UserType: "guest",
		}

		tokenString, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.GuestIdentityExpiration)
		if err != nil {
			logx.Error(err, "failed to generate session token")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"player": map[string]any{
				"id":       playerID,
				"name":     name,
				"userType": "guest",
			},
		})
	}
}
