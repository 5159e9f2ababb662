// Package invoice renders booking invoices as PDF documents.
package invoice

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/go-pdf/fpdf"
)

const dateLayout = "02 Jan 2006"

type PDFRenderer struct {
	company string
}

func NewPDFRenderer(company string) *PDFRenderer {
	if company == "" {
		company = "Tour Management"
	}
	return &PDFRenderer{company: company}
}

func (r *PDFRenderer) Render(ctx context.Context, data domain.InvoiceData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+data.TransactionID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, r.company, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	rows := [][2]string{
		{"Transaction ID", data.TransactionID},
		{"Booking Date", data.BookingDate.Format(dateLayout)},
		{"Customer", data.UserName},
		{"Tour", data.TourTitle},
		{"Guests", strconv.Itoa(data.GuestCount)},
		{"Total Amount", formatAmount(data.TotalAmount)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 9, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 9, pdf.UnicodeTranslatorFromDescriptor("")(row[1]), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, "Thank you for booking with us.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64) + " BDT"
}
