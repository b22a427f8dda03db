package mcptools

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"

	"github.com/storelite/ims/internal/domain/bill"
	"github.com/storelite/ims/internal/domain/item"
)

// itemPayload mirrors the REST adapter's item shape so agents and HTTP
// clients see the same field names.
type itemPayload struct {
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

func toItemPayload(it *item.Item) itemPayload {
	return itemPayload{
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

type billPayload struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customerName,omitempty"`
	StoreName    string            `json:"storeName"`
	Total        decimal.Decimal   `json:"total"`
	CreatedAt    time.Time         `json:"createdAt"`
	Items        []lineItemPayload `json:"items,omitempty"`
}

type lineItemPayload struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"itemId"`
	ItemName  string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

func toBillPayload(b *bill.Bill) billPayload {
	p := billPayload{
		ID:           b.ID,
		CustomerName: b.CustomerName,
		StoreName:    b.StoreName,
		Total:        b.Total,
		CreatedAt:    b.CreatedAt,
	}
	if len(b.Items) > 0 {
		p.Items = make([]lineItemPayload, len(b.Items))
		for i, li := range b.Items {
			p.Items[i] = lineItemPayload{
				ID:        li.ID,
				ItemID:    li.ItemID,
				ItemName:  li.ItemName,
				UnitPrice: li.UnitPrice,
				Quantity:  li.Quantity,
				LineTotal: li.LineTotal,
			}
		}
	}
	return p
}

// toolError maps the domain error taxonomy to tool error results. Known
// errors keep their messages; anything unexpected becomes a generic
// internal error so persistence details never reach the agent.
func toolError(err error) *mcp.CallToolResult {
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
		errors.As(err, &tooLargeErr),
		errors.As(err, &qtyErr),
		errors.As(err, &itemNotFoundErr),
		errors.As(err, &insufficientErr),
		errors.Is(err, item.ErrNotFound),
		errors.Is(err, bill.ErrNotFound),
		errors.Is(err, bill.ErrLockTimeout):
		return mcp.NewToolResultError(err.Error())
	default:
		return mcp.NewToolResultError("internal error")
	}
}
