package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// LoopPDF renders a single loop as a paginated document named loop-<id>.pdf.
func LoopPDF(row repository.LoopRow, generatedAt time.Time) (File, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Transaction Loop #%d", row.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Transaction Loop Summary", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, row.PropertyAddress, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	fields := []struct {
		label string
		value string
	}{
		{"Loop ID", fmt.Sprintf("%d", row.ID)},
		{"Type", row.Type},
		{"Status", row.Status},
		{"Property Address", row.PropertyAddress},
		{"Client Name", textOr(row.ClientName, placeholderNA)},
		{"Sale Amount", amountOrZero(row.SaleAmount)},
		{"Start Date", dateOrNA(row.StartDate)},
		{"End Date", dateOrNA(row.EndDate)},
		{"Created By", textOr(row.CreatorName, placeholderUnknown)},
		{"Created", row.CreatedAt.Format(timeLayout)},
		{"Last Updated", row.UpdatedAt.Format(timeLayout)},
	}

	pdf.SetFillColor(240, 240, 240)
	for _, field := range fields {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 9, field.label, "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 9, field.value, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", generatedAt.Format(timeLayout)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return File{}, fmt.Errorf("failed to render loop pdf: %w", err)
	}

	return File{
		Name:        fmt.Sprintf("loop-%d.pdf", row.ID),
		ContentType: "application/pdf",
		Bytes:       buf.Bytes(),
	}, nil
}
