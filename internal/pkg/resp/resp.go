/*
Package resp writes the JSON envelope shared by the server's small REST
surface, currently session issuance and health. Every body carries a business
code from the errs package plus a message, so the web client can branch on the
code without inspecting HTTP statuses.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"goroda/internal/pkg/errs"
	"goroda/internal/pkg/logx"
)

// JSONResponse is the envelope for every REST body the server returns.
type JSONResponse struct {
	// Code is the business status code (0 for success, see errs for the rest).
	Code int `json:"code"`

	// Message is the client-facing status description or error message.
	Message string `json:"message"`

	// Data is the optional payload, e.g. the session token document.
	Data any `json:"data,omitempty"`
}

// RespondJSON sets the content headers and sends payload as JSON.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends data inside a code-0 envelope with HTTP 200 OK.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	res := JSONResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
	RespondJSON(w, r, http.StatusOK, res)
}

// RespondError sends the error's envelope using its mapped HTTP status. A nil
// error degrades to the generic ErrUnknown envelope.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	res := JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
		Data:    nil,
	}
	RespondJSON(w, r, customErr.Status, res)
}
