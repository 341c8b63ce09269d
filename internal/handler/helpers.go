package handler

import (
	"errors"
	"net/http"

	"promptdeck/internal/domain"
	"promptdeck/internal/httputil"
	"promptdeck/internal/provider"
)

// handleError converts domain and provider errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	var upstreamErr *provider.UpstreamError
	var transportErr *provider.TransportError

	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNoSession):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case provider.IsCredentialError(err):
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &upstreamErr):
		httputil.RespondError(w, http.StatusInternalServerError, upstreamErr.Error())
	case errors.As(err, &transportErr):
		httputil.RespondError(w, http.StatusInternalServerError, transportErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
