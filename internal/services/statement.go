package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"transitcrm/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// StatementService renders a card statement PDF from the product details.
type StatementService struct {
	Search SearchService
	Loader func(context.Context, string) (CardDetails, error)
	Now    func() time.Time
}

func (s StatementService) GenerateStatement(ctx context.Context, cardID string) ([]byte, string, error) {
	d, err := s.load(ctx, cardID)
	if err != nil {
		return nil, "", err
	}
	logEvent(ctx, "docs", "generate_statement", "card_id="+cardID)
	now := utils.NowUTC()
	if s.Now != nil {
		now = s.Now()
	}
	return buildStatementPDF(d, now)
}

func (s StatementService) load(ctx context.Context, cardID string) (CardDetails, error) {
	if s.Loader != nil {
		return s.Loader(ctx, cardID)
	}
	return s.Search.Details(ctx, cardID)
}

func buildStatementPDF(d CardDetails, now time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Card Statement", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "CARD STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Product ID   : %s", safe(d.Card.ID, "-")),
		fmt.Sprintf("Type         : %s", safe(d.Card.Type, "-")),
		fmt.Sprintf("Status       : %s", safe(d.Card.Status, "-")),
		fmt.Sprintf("Balance      : %s", utils.FormatDollars(d.Card.Balance.Float())),
		fmt.Sprintf("Issue Date   : %s", safe(dateOnly(d.Card.IssueDate), "-")),
		fmt.Sprintf("Generated    : %s", now.Format("2006-01-02 15:04")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Customer:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name   : %s", safe(d.Customer.Name, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email  : %s", safe(d.Customer.Email, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Phone  : %s", safe(d.Customer.Phone, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Recent trips:")
	pdf.Ln(8)

	widths := []float64{38, 45, 45, 30, 32}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Start", "Entry", "Exit", "Mode", "Fare"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	if len(d.Trips) == 0 {
		pdf.CellFormat(sum(widths), 7, "No trips recorded", "1", 0, "L", false, 0, "")
		pdf.Ln(7)
	}
	for _, t := range d.Trips {
		cells := []string{
			safe(t.StartText(), "-"),
			safe(t.Cell(t.EntryLocation), "-"),
			safe(t.Cell(t.ExitLocation), "-"),
			safe(t.Cell(t.TransitMode), "-"),
			t.FareText(),
		}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This statement lists the most recent trips recorded on the card.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("STATEMENT_%s_%s.pdf", safeFilenamePart(d.Card.ID), now.Format("20060102"))
	return buf.Bytes(), filename, nil
}

func sum(v []float64) float64 {
	var total float64
	for _, n := range v {
		total += n
	}
	return total
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func dateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
