package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/storelite/ims/internal/domain/bill"
	"github.com/storelite/ims/internal/domain/item"
)

// errorResponse is the JSON error body for every failed request.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

// writeError maps the domain error taxonomy onto HTTP statuses. The MCP
// adapter maps the same taxonomy; neither invents new semantics.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr   *item.ValidationError
		dupErr          *bill.DuplicateItemError
		tooLargeErr     *bill.CartTooLargeError
		qtyErr          *bill.InvalidQuantityError
		itemNotFoundErr *bill.ItemNotFoundError
		insufficientErr *bill.InsufficientStockError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, bill.ErrEmptyCart),
		errors.As(err, &dupErr),
		errors.As(err, &tooLargeErr):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &qtyErr),
		errors.As(err, &itemNotFoundErr):
		writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, item.ErrNotFound),
		errors.Is(err, bill.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficientErr):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, bill.ErrLockTimeout):
		w.Header().Set("Retry-After", "1")
		writeErrorMessage(w, http.StatusServiceUnavailable, err.Error())
	default:
		// Persistence details stay out of the response body.
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}
