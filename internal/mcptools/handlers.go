package mcptools

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/go-faster/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"

	"github.com/storelite/ims/internal/domain/bill"
	"github.com/storelite/ims/internal/domain/item"
	"github.com/storelite/ims/internal/service"
)

func (a *Adapter) addItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	unit, err := req.RequireString("unit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	price, err := req.RequireFloat("price")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stock, err := intArg(req, "stock", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	it, err := a.svc.AddItem(ctx, service.AddItemParams{
		Name:     name,
		Category: item.Category(category),
		Unit:     item.Unit(unit),
		Price:    decimal.NewFromFloat(price),
		Stock:    stock,
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(toItemPayload(it))
}

func (a *Adapter) getItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("item_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	it, err := a.svc.GetItem(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(toItemPayload(it))
}

func (a *Adapter) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := a.svc.ListItems(ctx, item.Filter{
		NameSubstring: req.GetString("name", ""),
		Category:      item.Category(req.GetString("category", "")),
	})
	if err != nil {
		return toolError(err), nil
	}

	out := make([]itemPayload, len(items))
	for i := range items {
		out[i] = toItemPayload(&items[i])
	}
	return jsonResult(out)
}

func (a *Adapter) updateItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("item_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var upd item.Update
	args := req.GetArguments()
	if _, ok := args["price"]; ok {
		price := decimal.NewFromFloat(req.GetFloat("price", 0))
		upd.Price = &price
	}
	if _, ok := args["stock"]; ok {
		stock, err := intArg(req, "stock", 0)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		upd.Stock = &stock
	}

	it, err := a.svc.UpdateItem(ctx, id, upd)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(toItemPayload(it))
}

func (a *Adapter) deleteItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("item_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := a.svc.DeleteItem(ctx, id); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(`{"deleted":true}`), nil
}

func (a *Adapter) createBill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	storeName, err := req.RequireString("store_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rawItems, ok := req.GetArguments()["items"].([]any)
	if !ok {
		return mcp.NewToolResultError("items must be an array of {item_id, quantity}"), nil
	}

	cart := make([]bill.CartLine, 0, len(rawItems))
	for _, raw := range rawItems {
		obj, ok := raw.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("items must be an array of {item_id, quantity}"), nil
		}
		itemID, _ := obj["item_id"].(string)
		qty, ok := obj["quantity"].(float64)
		if !ok || qty != math.Trunc(qty) {
			return mcp.NewToolResultError("quantity must be an integer"), nil
		}
		cart = append(cart, bill.CartLine{ItemID: itemID, Quantity: int64(qty)})
	}

	b, err := a.svc.CreateBill(ctx, service.CreateBillParams{
		CustomerName: req.GetString("customer_name", ""),
		StoreName:    storeName,
		Cart:         cart,
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(toBillPayload(b))
}

func (a *Adapter) getBill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("bill_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b, err := a.svc.GetBill(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(toBillPayload(b))
}

func (a *Adapter) listBills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var f bill.Filter
	if v := req.GetString("from", ""); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError("invalid from: expected RFC 3339 timestamp"), nil
		}
		f.From = &t
	}
	if v := req.GetString("to", ""); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError("invalid to: expected RFC 3339 timestamp"), nil
		}
		f.To = &t
	}

	bills, err := a.svc.ListBills(ctx, f)
	if err != nil {
		return toolError(err), nil
	}

	out := make([]billPayload, len(bills))
	for i := range bills {
		out[i] = toBillPayload(&bills[i])
	}
	return jsonResult(out)
}

// intArg reads an optional integer argument. JSON numbers arrive as
// float64, so a fractional value like 2.7 is rejected rather than silently
// truncated.
func intArg(req mcp.CallToolRequest, key string, def int64) (int64, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.Errorf("%s must be an integer", key)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, errors.Errorf("%s must be an integer", key)
	}
}

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("internal error"), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
