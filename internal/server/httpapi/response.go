package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

// errorBody is the uniform error response.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

type tokenBody struct {
	StatusCode  int    `json:"statusCode"`
	AccessToken string `json:"accessToken"`
}

type messageBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type linkBody struct {
	StatusCode       int    `json:"statusCode"`
	RegistrationLink string `json:"registrationLink"`
}

type sessionBody struct {
	StatusCode int    `json:"statusCode"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Status     string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusOf maps a service error kind to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError writes only the caller-safe message of err.
func writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	writeJSON(w, code, errorBody{
		StatusCode: code,
		Error:      http.StatusText(code),
		Message:    common.PublicMessage(err),
	})
}
