package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/storelite/ims/internal/domain/bill"
	"github.com/storelite/ims/internal/service"
)

type billResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customerName,omitempty"`
	StoreName    string             `json:"storeName"`
	Total        decimal.Decimal    `json:"total"`
	CreatedAt    time.Time          `json:"createdAt"`
	Items        []lineItemResponse `json:"items,omitempty"`
}

type lineItemResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"itemId"`
	ItemName  string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

func toBillResponse(b *bill.Bill) billResponse {
	resp := billResponse{
		ID:           b.ID,
		CustomerName: b.CustomerName,
		StoreName:    b.StoreName,
		Total:        b.Total,
		CreatedAt:    b.CreatedAt,
	}
	if len(b.Items) > 0 {
		resp.Items = make([]lineItemResponse, len(b.Items))
		for i, li := range b.Items {
			resp.Items[i] = lineItemResponse{
				ID:        li.ID,
				ItemID:    li.ItemID,
				ItemName:  li.ItemName,
				UnitPrice: li.UnitPrice,
				Quantity:  li.Quantity,
				LineTotal: li.LineTotal,
			}
		}
	}
	return resp
}

type createBillRequest struct {
	CustomerName string     `json:"customerName"`
	StoreName    string     `json:"storeName"`
	Items        []cartLine `json:"items"`
}

type cartLine struct {
	ItemID   string `json:"itemId"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart := make([]bill.CartLine, len(req.Items))
	for i, line := range req.Items {
		cart[i] = bill.CartLine{ItemID: line.ItemID, Quantity: line.Quantity}
	}

	b, err := h.svc.CreateBill(r.Context(), service.CreateBillParams{
		CustomerName: req.CustomerName,
		StoreName:    req.StoreName,
		Cart:         cart,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillResponse(b))
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetBill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(b))
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	f, err := parseBillFilter(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	bills, err := h.svc.ListBills(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]billResponse, len(bills))
	for i := range bills {
		out[i] = toBillResponse(&bills[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// parseBillFilter reads the optional from/to query parameters (RFC 3339).
func parseBillFilter(r *http.Request) (bill.Filter, error) {
	var f bill.Filter
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errInvalidTime{"from"}
		}
		f.From = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errInvalidTime{"to"}
		}
		f.To = &t
	}
	return f, nil
}

type errInvalidTime struct {
	param string
}

func (e errInvalidTime) Error() string {
	return "invalid " + e.param + " parameter: expected RFC 3339 timestamp"
}
