/*
payslip.go - Payslip PDF rendering

PURPOSE:
  Renders a slip into a simple A4 payslip PDF for download or email.
  Layout is intentionally plain: header, period info, then the
  earnings and deductions breakdown with net pay last.

SEE ALSO:
  - types.go: Slip, Period
*/
package payroll

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// RenderPayslipPDF renders one slip as a PDF document.
func RenderPayslipPDF(period Period, slip Slip, employeeName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if employeeName == "" {
		employeeName = slip.EmployeeID
	}
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s (%s to %s)", period.Name,
		period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", slip.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Work days", slip.WorkDays)
	line(pdf, "Base earnings", slip.BaseEarnings)
	line(pdf, fmt.Sprintf("Overtime (%s h)", slip.OvertimeHours.String()), slip.OvertimeEarnings)
	line(pdf, "Allowances", slip.AllowancesAmount)
	line(pdf, "Gross pay", slip.GrossPay)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Social insurance", slip.SocialInsurance)
	line(pdf, "Health insurance", slip.HealthInsurance)
	line(pdf, "Unemployment insurance", slip.UnemploymentInsurance)
	line(pdf, "Absence deduction", slip.AbsenceDeduction)
	line(pdf, "Total deductions", slip.TotalDeductions)
	pdf.Ln(4)

	if !slip.AdjustmentAmount.IsZero() {
		line(pdf, "Adjustments", slip.AdjustmentAmount)
	}

	pdf.SetFont("Helvetica", "B", 13)
	line(pdf, "Net pay", slip.NetPay)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.Cell(110, 7, label)
	pdf.CellFormat(60, 7, amount.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(7)
}
