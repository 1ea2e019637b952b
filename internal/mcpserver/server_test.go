package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.TestService(t))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are
	// invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_events":
		result, err = srv.listEvents(ctx, req)
	case "range_summary":
		result, err = srv.rangeSummary(ctx, req)
	case "invoice_totals":
		result, err = srv.invoiceTotals(ctx, req)
	case "list_unbilled_work":
		result, err = srv.listUnbilledWork(ctx, req)
	case "add_expense":
		result, err = srv.addExpense(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAddExpenseAndListEvents(t *testing.T) {
	srv := testServer(t)

	res := callTool(t, srv, "add_expense", map[string]any{
		"date":        "2025-03-10",
		"amount":      42.5,
		"description": "Domain renewal",
	})
	if res.IsError {
		t.Fatalf("add_expense failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "created expense") {
		t.Errorf("unexpected result: %q", resultText(res))
	}

	res = callTool(t, srv, "list_events", map[string]any{
		"from": "2025-03-01",
		"to":   "2025-03-31",
	})
	if res.IsError {
		t.Fatalf("list_events failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "Domain renewal") {
		t.Errorf("expense missing from events: %q", resultText(res))
	}
}

func TestAddExpenseAppliesRegistryDefaults(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "add_expense", map[string]any{
		"date":        "2025-03-10",
		"amount":      10.0,
		"description": "Stamps",
	})

	expenses, err := srv.svc.Store().ListExpenses("", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expenses = %d, want 1", len(expenses))
	}
	if expenses[0].Category != "general" {
		t.Errorf("category = %q, want default %q", expenses[0].Category, "general")
	}
	if expenses[0].PaymentMethod != "bank" {
		t.Errorf("payment method = %q, want default %q", expenses[0].PaymentMethod, "bank")
	}
}

func TestAddExpenseMissingDate(t *testing.T) {
	srv := testServer(t)
	res := callTool(t, srv, "add_expense", map[string]any{
		"amount":      10.0,
		"description": "Stamps",
	})
	if !res.IsError {
		t.Fatal("expected error for missing date")
	}
}

func TestRangeSummary(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	if _, err := srv.svc.CreateWorkEntry(ctx, models.WorkEntry{
		Date: "2025-03-05", Description: "API work", Hours: 4, HourlyRate: 100,
	}); err != nil {
		t.Fatal(err)
	}
	callTool(t, srv, "add_expense", map[string]any{
		"date": "2025-03-06", "amount": 50.0, "description": "Hosting",
	})

	res := callTool(t, srv, "range_summary", map[string]any{
		"from": "2025-03-01",
		"to":   "2025-03-31",
	})
	if res.IsError {
		t.Fatalf("range_summary failed: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, "400") {
		t.Errorf("work amount missing from summary: %q", text)
	}
	if !strings.Contains(text, "50") {
		t.Errorf("expense total missing from summary: %q", text)
	}
}

func TestInvoiceTotals(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	rate, err := srv.svc.SaveTaxRate(ctx, models.TaxRate{Name: "VAT", Rate: 21})
	if err != nil {
		t.Fatal(err)
	}
	inv, err := srv.svc.CreateInvoice(ctx, models.Invoice{
		Number:    "2025-001",
		IssueDate: "2025-03-01",
		DueDate:   "2025-03-15",
		Items: []models.LineItem{
			{ItemType: models.ItemTypeItem, Description: "Design", Quantity: 2, Price: 100, TaxID: rate.ID},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	res := callTool(t, srv, "invoice_totals", map[string]any{"id": inv.ID})
	if res.IsError {
		t.Fatalf("invoice_totals failed: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, "2025-001") {
		t.Errorf("invoice number missing: %q", text)
	}
	if !strings.Contains(text, "242") {
		t.Errorf("expected total 242 in %q", text)
	}
}

func TestInvoiceTotalsUnknownID(t *testing.T) {
	srv := testServer(t)
	res := callTool(t, srv, "invoice_totals", map[string]any{"id": "nope"})
	if !res.IsError {
		t.Fatal("expected error for unknown invoice")
	}
}

func TestListUnbilledWork(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()

	res := callTool(t, srv, "list_unbilled_work", nil)
	if !strings.Contains(resultText(res), "no unbilled work") {
		t.Errorf("expected empty message, got %q", resultText(res))
	}

	if _, err := srv.svc.CreateWorkEntry(ctx, models.WorkEntry{
		Date: "2025-03-05", Description: "Backend sprint", Hours: 8, HourlyRate: 90,
	}); err != nil {
		t.Fatal(err)
	}

	res = callTool(t, srv, "list_unbilled_work", nil)
	if !strings.Contains(resultText(res), "Backend sprint") {
		t.Errorf("unbilled entry missing: %q", resultText(res))
	}
}
