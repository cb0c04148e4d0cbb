package httpx

import (
	"errors"
	"net/http"

	"github.com/donorhub/donorhub/internal/shared"
)

// RespondError maps domain errors to JSON error responses. Unknown errors
// collapse into a generic 500 so store internals never leak to clients.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		Error(w, http.StatusUnauthorized, "Not logged in")
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, shared.ErrDuplicateEmail):
		Error(w, http.StatusConflict, "Email already exists")
	default:
		Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}
