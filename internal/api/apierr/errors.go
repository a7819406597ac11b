package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkarpov/giftcircle/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeNameRequired        = "NAME_REQUIRED"
	CodeTableNotFound       = "TABLE_NOT_FOUND"
	CodeTableFull           = "TABLE_FULL"
	CodeReferralRequired    = "REFERRAL_REQUIRED"
	CodeInvalidReferral     = "INVALID_REFERRAL"
	CodeReferralExhausted   = "REFERRAL_EXHAUSTED"
	CodeSponsorGone         = "SPONSOR_GONE"
	CodeReferralLimit       = "REFERRAL_LIMIT"
	CodeSeatTaken           = "SEAT_TAKEN"
	CodeSeatInvalid         = "SEAT_INVALID"
	CodeNotASon             = "NOT_A_SON"
	CodeParticipantNotFound = "PARTICIPANT_NOT_FOUND"
	CodeSplitRefused        = "SPLIT_REFUSED"
	CodeTablesExist         = "TABLES_EXIST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrNameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeNameRequired, "A display name is required"}}
	case errors.Is(err, model.ErrTableNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTableNotFound, "Table not found"}}
	case errors.Is(err, model.ErrTableFull):
		return &httpError{http.StatusConflict, APIError{CodeTableFull, "The table is full"}}
	case errors.Is(err, model.ErrReferralRequired):
		return &httpError{http.StatusForbidden, APIError{CodeReferralRequired, "A referral code is required to join"}}
	case errors.Is(err, model.ErrInvalidReferral):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidReferral, "Referral code is not valid"}}
	case errors.Is(err, model.ErrReferralExhausted):
		return &httpError{http.StatusConflict, APIError{CodeReferralExhausted, "Referral code has no remaining uses"}}
	case errors.Is(err, model.ErrSponsorGone):
		return &httpError{http.StatusConflict, APIError{CodeSponsorGone, "The referral sponsor has left the table"}}
	case errors.Is(err, model.ErrReferralLimit):
		return &httpError{http.StatusConflict, APIError{CodeReferralLimit, "Referral issuance limit reached"}}
	case errors.Is(err, model.ErrSeatTaken):
		return &httpError{http.StatusConflict, APIError{CodeSeatTaken, "The seat is held by another participant"}}
	case errors.Is(err, model.ErrSeatInvalid):
		return &httpError{http.StatusConflict, APIError{CodeSeatInvalid, "Seating would break the table's roster"}}
	case errors.Is(err, model.ErrNotASon):
		return &httpError{http.StatusForbidden, APIError{CodeNotASon, "Only sons can issue referral codes"}}
	case errors.Is(err, model.ErrParticipantNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeParticipantNotFound, "Participant not found"}}
	case errors.Is(err, model.ErrSplitInvariant), errors.Is(err, model.ErrAlreadySplit):
		return &httpError{http.StatusConflict, APIError{CodeSplitRefused, "The table cannot split"}}
	case errors.Is(err, model.ErrTablesExist):
		return &httpError{http.StatusConflict, APIError{CodeTablesExist, "A table already exists"}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid login or password"}}
	case errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
