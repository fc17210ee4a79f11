// Package billing renders bill and kitchen-ticket documents from a
// ledger slice. Rendering is a pure read; it never mutates the ledger.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

type DocumentLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LinePrice string `json:"line_price,omitempty"` // bill only
}

type Document struct {
	Kind        string         `json:"kind"` // bill | kitchen_ticket
	Table       string         `json:"table"`
	Lines       []DocumentLine `json:"lines"`
	Subtotal    string         `json:"subtotal,omitempty"`
	Tax         string         `json:"tax,omitempty"`
	Total       string         `json:"total,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Bill builds the customer-facing document with line prices and totals.
func Bill(tableName string, lines []domain.BillLine, totals domain.Totals) Document {
	doc := Document{
		Kind:        "bill",
		Table:       tableName,
		Lines:       make([]DocumentLine, 0, len(lines)),
		Subtotal:    totals.Subtotal.StringFixed(2),
		Tax:         totals.Tax.StringFixed(2),
		Total:       totals.Total.StringFixed(2),
		GeneratedAt: time.Now().UTC(),
	}
	for _, line := range lines {
		doc.Lines = append(doc.Lines, DocumentLine{
			Name:      line.Name,
			Quantity:  line.Quantity,
			LinePrice: line.Price.StringFixed(2),
		})
	}
	return doc
}

// Ticket builds the kitchen-facing document: dish names and quantities,
// no prices.
func Ticket(tableName string, lines []domain.BillLine) Document {
	doc := Document{
		Kind:        "kitchen_ticket",
		Table:       tableName,
		Lines:       make([]DocumentLine, 0, len(lines)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, line := range lines {
		doc.Lines = append(doc.Lines, DocumentLine{Name: line.Name, Quantity: line.Quantity})
	}
	return doc
}

// Render produces a fixed-width plain text sheet for printing.
func (d Document) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", strings.ToUpper(d.Table), strings.Repeat("-", 32))
	for _, line := range d.Lines {
		if line.LinePrice != "" {
			fmt.Fprintf(&b, "%-20s x%-3d %7s\n", line.Name, line.Quantity, line.LinePrice)
		} else {
			fmt.Fprintf(&b, "%-20s x%d\n", line.Name, line.Quantity)
		}
	}
	if d.Total != "" {
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 32))
		fmt.Fprintf(&b, "%-25s %6s\n", "Subtotal", d.Subtotal)
		fmt.Fprintf(&b, "%-25s %6s\n", "GST", d.Tax)
		fmt.Fprintf(&b, "%-25s %6s\n", "Total", d.Total)
	}
	return b.String()
}
