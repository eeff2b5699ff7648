package httpserver

import (
	"errors"
	"net/http"

	granterrors "repogrant/contexts/access-grant/grant-service/domain/errors"
	granthttp "repogrant/contexts/access-grant/grant-service/transport/http"
)

func writeGrantError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, granthttp.ErrorResponse{Code: code, Message: message})
}

func writeGrantDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, granterrors.ErrPurchaseIDRequired),
		errors.Is(err, granterrors.ErrPrincipalRequired),
		errors.Is(err, granterrors.ErrInvalidPurchaseID),
		errors.Is(err, granterrors.ErrInvalidPrincipal),
		errors.Is(err, granterrors.ErrChallengeTokenRequired):
		writeGrantError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, granterrors.ErrChallengeFailed),
		errors.Is(err, granterrors.ErrPurchaseNotFound),
		errors.Is(err, granterrors.ErrPurchaseRefunded),
		errors.Is(err, granterrors.ErrVoucherPurchase),
		errors.Is(err, granterrors.ErrProductNotMapped),
		errors.Is(err, granterrors.ErrPrincipalUnknown):
		writeGrantError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, granterrors.ErrGrantImmutable):
		writeGrantError(w, http.StatusForbidden, "grant_immutable", err.Error())
	case errors.Is(err, granterrors.ErrUpstream):
		writeGrantError(w, http.StatusInternalServerError, "upstream_error", err.Error())
	case errors.Is(err, granterrors.ErrStorage):
		writeGrantError(w, http.StatusInternalServerError, "storage_error", err.Error())
	default:
		writeGrantError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
