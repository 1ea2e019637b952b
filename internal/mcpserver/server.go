// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Fehu tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fehu/internal/calendar"
	"github.com/starford/fehu/internal/invoice"
	"github.com/starford/fehu/internal/ledger"
	"github.com/starford/fehu/internal/models"
)

// Server wraps the MCP server with Fehu tools.
type Server struct {
	mcp *server.MCPServer
	svc *ledger.Service
}

// New creates a new MCP server with all Fehu tools registered.
func New(svc *ledger.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Fehu",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_events",
		mcp.WithDescription("List normalized calendar events (expenses, work, travel, time, meetings, invoices) for a date range."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Range start date (YYYY-MM-DD)")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Range end date (YYYY-MM-DD)")),
		mcp.WithString("type", mcp.Description("Optional event type filter (expense, work, travel, time, meeting, invoice, income)")),
	), s.listEvents)

	s.mcp.AddTool(mcp.NewTool("range_summary",
		mcp.WithDescription("Financial summary for a date range: income, expenses, net, hours worked."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Range start date (YYYY-MM-DD)")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Range end date (YYYY-MM-DD)")),
	), s.rangeSummary)

	s.mcp.AddTool(mcp.NewTool("invoice_totals",
		mcp.WithDescription("Compute subtotal, discount, per-rate tax breakdown and total for a stored invoice."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Invoice id")),
	), s.invoiceTotals)

	s.mcp.AddTool(mcp.NewTool("list_unbilled_work",
		mcp.WithDescription("List work entries that have not been attached to any invoice yet."),
	), s.listUnbilledWork)

	s.mcp.AddTool(mcp.NewTool("add_expense",
		mcp.WithDescription("Record a new expense. Category and payment method fall back to the configured defaults when omitted."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Expense date (YYYY-MM-DD)")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Expense amount")),
		mcp.WithString("description", mcp.Required(), mcp.Description("What the expense was for")),
		mcp.WithString("category", mcp.Description("Optional category id")),
		mcp.WithString("payment_method", mcp.Description("Optional payment method id")),
	), s.addExpense)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var f calendar.Filter
	if typ, terr := req.RequireString("type"); terr == nil && typ != "" {
		f.Types = []string{typ}
	}
	events, err := s.svc.Events(ctx, from, to, f, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(events, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) rangeSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum, err := s.svc.Summarize(ctx, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(sum, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) invoiceTotals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	inv, err := s.svc.GetInvoice(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invoice not found: %s", id)), nil
	}
	totals, breakdown, err := s.svc.InvoiceTotals(ctx, *inv, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(struct {
		Invoice   string                   `json:"invoice"`
		Totals    invoice.Totals           `json:"totals"`
		Breakdown []invoice.BreakdownEntry `json:"breakdown"`
	}{inv.Number, totals, breakdown}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listUnbilledWork(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.svc.UnbilledWork(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no unbilled work entries"), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	amount, err := req.RequireFloat("amount")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	desc, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e := models.Expense{Date: date, Amount: amount, Description: desc}
	if v, cerr := req.RequireString("category"); cerr == nil {
		e.Category = v
	}
	if v, perr := req.RequireString("payment_method"); perr == nil {
		e.PaymentMethod = v
	}

	created, err := s.svc.CreateExpense(ctx, e)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created expense %s (%s, %.2f)", created.ID, created.Date, created.Amount)), nil
}
