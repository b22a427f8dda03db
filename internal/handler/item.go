package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/storelite/ims/internal/domain/item"
	"github.com/storelite/ims/internal/service"
)

type itemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toItemResponse(it *item.Item) itemResponse {
	return itemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Category:  string(it.Category),
		Unit:      string(it.Unit),
		Price:     it.Price,
		Stock:     it.Stock,
		Active:    it.Active,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

type addItemRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	it, err := h.svc.AddItem(r.Context(), service.AddItemParams{
		Name:     req.Name,
		Category: item.Category(req.Category),
		Unit:     item.Unit(req.Unit),
		Price:    req.Price,
		Stock:    req.Stock,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(it))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(it))
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	f := item.Filter{
		NameSubstring: r.URL.Query().Get("name"),
		Category:      item.Category(r.URL.Query().Get("category")),
	}

	items, err := h.svc.ListItems(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]itemResponse, len(items))
	for i := range items {
		out[i] = toItemResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type updateItemRequest struct {
	Price *decimal.Decimal `json:"price"`
	Stock *int64           `json:"stock"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	it, err := h.svc.UpdateItem(r.Context(), chi.URLParam(r, "id"), item.Update{
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(it))
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
