package payroll

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PayslipData is everything the rendered payslip shows: employee identity
// plus the stored payroll figures.
type PayslipData struct {
	EmpCode     string
	Name        string
	Designation string
	JoiningDate time.Time
	Payroll     Payroll
}

// Payslip loads the stored record for the month and renders it. The record
// must already exist; payslip rendering never generates payroll.
func (s *Service) Payslip(ctx context.Context, employeeID string, m Month) (PayslipData, []byte, error) {
	record, err := s.store.FindPayroll(ctx, employeeID, m)
	if err != nil {
		return PayslipData{}, nil, err
	}

	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return PayslipData{}, nil, err
	}

	data := PayslipData{
		EmpCode:     emp.EmpCode,
		Name:        emp.FullName(),
		Designation: emp.Designation,
		JoiningDate: emp.JoiningDate,
		Payroll:     record,
	}

	pdf, err := RenderPayslipPDF(data)
	if err != nil {
		return PayslipData{}, nil, err
	}
	return data, pdf, nil
}

// RenderPayslipPDF renders a single-page A4 payslip.
func RenderPayslipPDF(data PayslipData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip "+data.Payroll.PayMonth.String())
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", data.Name, data.EmpCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Designation: "+data.Designation)
	pdf.Ln(7)
	pdf.Cell(0, 8, "Joining date: "+data.JoiningDate.Format("2006-01-02"))
	pdf.Ln(10)

	record := data.Payroll
	lines := []struct {
		label string
		value string
	}{
		{"Gross salary", record.GrossSalary.StringFixed(2)},
		{"Provident fund", record.PFAmount.StringFixed(2)},
		{"Tax", record.TaxAmount.StringFixed(2)},
		{"Leave deduction", record.LeaveDeduction.StringFixed(2)},
		{"Total deductions", record.TotalDeductions.StringFixed(2)},
		{"Net salary", record.NetSalary.StringFixed(2)},
		{"Working days", fmt.Sprintf("%d", record.WorkingDays)},
		{"Paid days", fmt.Sprintf("%d", record.PaidDays)},
		{"LOP days", fmt.Sprintf("%d", record.LOPDays)},
	}
	for _, line := range lines {
		pdf.Cell(60, 8, line.label)
		pdf.Cell(0, 8, line.value)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
