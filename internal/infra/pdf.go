package infra

// pdf.go — measurement statement generation using go-pdf/fpdf.
// Produces an A4 statement with:
//   - Work / supplier / contract header
//   - Item table (description, unit, quantity, unit value, gross)
//   - Gross / retention / net totals
// The output file is saved to storagePath/measurement_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateMeasurementPDF renders the printable statement for an approved
// measurement. storagePath is created if needed. Returns the absolute path
// of the generated file.
func GenerateMeasurementPDF(m *model.Measurement, contract *model.Contract, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("measurement_%s.pdf", m.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 9, "Boletim de Medição", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if contract.Work != nil {
		pdf.CellFormat(contentW, 5, "Obra: "+contract.Work.Name, "", 1, "L", false, 0, "")
	}
	if contract.Supplier != nil {
		pdf.CellFormat(contentW, 5, "Fornecedor: "+contract.Supplier.Name, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Serviço: "+contract.Service, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Data de emissão: "+m.IssueDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	if m.ApprovalDate != nil {
		pdf.CellFormat(contentW, 5, "Data de aprovação: "+m.ApprovalDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Items table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // description
	col2 := contentW * 0.12 // unit
	col3 := contentW * 0.14 // quantity
	col4 := contentW * 0.16 // unit value
	col5 := contentW * 0.18 // gross

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Descrição", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Unid.", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Qtd.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Valor Unit.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Valor Bruto", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range m.Items {
		desc := ""
		unit := ""
		if item.ContractItem != nil {
			desc = item.ContractItem.Description
			unit = item.ContractItem.UnitMeasure
		}
		if len(desc) > 45 {
			desc = desc[:44] + "…"
		}
		pdf.CellFormat(col1, 6, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, unit, "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, item.Quantity.StringFixed(4), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "R$ "+item.UnitLaborValue.StringFixed(4), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, "R$ "+item.TotalGrossValue.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(col1+col2+col3+col4, 6, "Valor bruto:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "R$ "+m.TotalGrossValue.StringFixed(2), "", 1, "R", false, 0, "")

	retLabel := fmt.Sprintf("Retenção (%s%%):", contract.RetentionPercentage.StringFixed(2))
	pdf.CellFormat(col1+col2+col3+col4, 6, retLabel, "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "-R$ "+m.RetentionValue.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3+col4, 7, "Valor líquido:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 7, "R$ "+m.TotalNetValue.StringFixed(2), "", 1, "R", false, 0, "")

	if m.Notes != nil && *m.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Observações: "+*m.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
