// Package mcptools is the MCP adapter: it exposes the service facade as
// tools an LLM agent can call. It is structurally parallel to the REST
// adapter and surfaces the same error taxonomy, so agents and HTTP clients
// observe identical behavior.
package mcptools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/storelite/ims/internal/service"
)

// Adapter holds the facade the tool handlers delegate to.
type Adapter struct {
	svc *service.Service
}

// Register adds all StoreLite tools to the MCP server.
func Register(s *server.MCPServer, svc *service.Service) {
	a := &Adapter{svc: svc}

	s.AddTool(mcp.NewTool("add_item",
		mcp.WithDescription("Add a new catalog item with an initial price and stock quantity."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Item name")),
		mcp.WithString("category", mcp.Required(), mcp.Description("One of: grocery, beverage, household, stationery, personal_care, other")),
		mcp.WithString("unit", mcp.Required(), mcp.Description("One of: pcs, kg, g, l, ml, box, pack, dozen")),
		mcp.WithNumber("price", mcp.Required(), mcp.Description("Unit price, must be greater than zero")),
		mcp.WithNumber("stock", mcp.Description("Initial stock quantity, defaults to 0")),
	), a.addItem)

	s.AddTool(mcp.NewTool("get_item",
		mcp.WithDescription("Fetch a single catalog item by ID, including deactivated items."),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Item ID")),
	), a.getItem)

	s.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List active catalog items, optionally filtered by name substring and category."),
		mcp.WithString("name", mcp.Description("Case-insensitive name substring filter")),
		mcp.WithString("category", mcp.Description("Category filter")),
	), a.listItems)

	s.AddTool(mcp.NewTool("update_item",
		mcp.WithDescription("Update an item's price and/or stock quantity. Omitted fields are left unchanged."),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Item ID")),
		mcp.WithNumber("price", mcp.Description("New unit price, must be greater than zero")),
		mcp.WithNumber("stock", mcp.Description("New absolute stock quantity, must not be negative")),
	), a.updateItem)

	s.AddTool(mcp.NewTool("delete_item",
		mcp.WithDescription("Soft-delete an item: it disappears from listings but stays readable by ID and on old bills."),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Item ID")),
	), a.deleteItem)

	s.AddTool(mcp.NewTool("create_bill",
		mcp.WithDescription("Create a bill from a cart. Stock is validated and decremented atomically; on any failure nothing is sold."),
		mcp.WithString("store_name", mcp.Required(), mcp.Description("Store issuing the bill")),
		mcp.WithString("customer_name", mcp.Description("Optional customer name")),
		mcp.WithArray("items", mcp.Required(),
			mcp.Description("Cart lines, each {item_id: string, quantity: integer}"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"item_id":  map[string]any{"type": "string"},
					"quantity": map[string]any{"type": "integer"},
				},
				"required": []string{"item_id", "quantity"},
			}),
		),
	), a.createBill)

	s.AddTool(mcp.NewTool("get_bill",
		mcp.WithDescription("Fetch a bill with its line items by ID."),
		mcp.WithString("bill_id", mcp.Required(), mcp.Description("Bill ID")),
	), a.getBill)

	s.AddTool(mcp.NewTool("list_bills",
		mcp.WithDescription("List bills most-recent-first, optionally within an RFC 3339 time window."),
		mcp.WithString("from", mcp.Description("Inclusive lower bound, RFC 3339")),
		mcp.WithString("to", mcp.Description("Exclusive upper bound, RFC 3339")),
	), a.listBills)
}
