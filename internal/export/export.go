// Package export renders planning-pipeline results into downloadable
// workbooks and PDFs for human review.
package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/hotelops/roster/internal/forecast"
	"github.com/hotelops/roster/internal/model"
)

// ExecutiveSummaryWorkbook renders the Forecast-Run Engine's executive
// summary as an XLSX workbook, one sheet listing every day whose baseline
// and latest daily-update occupancy projections drifted beyond threshold.
func ExecutiveSummaryWorkbook(items []forecast.ExecutiveSummaryItem) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheetName = "Executive Summary"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Target Date", "Baseline Occ Adj (%)", "Latest Occ Adj (%)", "Delta (pp)", "Recommendation"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		_ = f.SetCellValue(sheetName, cellName(1, row), item.TargetDate.Format("2006-01-02"))
		_ = f.SetCellValue(sheetName, cellName(2, row), item.BaselineAdj)
		_ = f.SetCellValue(sheetName, cellName(3, row), item.LatestAdj)
		_ = f.SetCellValue(sheetName, cellName(4, row), item.DeltaPP)
		_ = f.SetCellValue(sheetName, cellName(5, row), item.Recommendation)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SchedulePlanWorkbook renders a schedule plan's shift slots as an XLSX
// workbook, one row per slot, for export and offline review.
func SchedulePlanWorkbook(plan *model.HousekeepingSchedulePlan, slots []model.ShiftSlot) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheetName = "Schedule"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Date", "Template", "Start", "End", "Hours", "Employee ID", "Assigned"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for rowIdx, slot := range slots {
		row := rowIdx + 2
		_ = f.SetCellValue(sheetName, cellName(1, row), slot.TargetDate.Format("2006-01-02"))
		_ = f.SetCellValue(sheetName, cellName(2, row), slot.TemplateName)
		_ = f.SetCellValue(sheetName, cellName(3, row), slot.StartTime)
		_ = f.SetCellValue(sheetName, cellName(4, row), slot.EndTime)
		hours, _ := slot.HoursWorked.Float64()
		_ = f.SetCellValue(sheetName, cellName(5, row), hours)
		employeeID := ""
		if slot.EmployeeID != nil {
			employeeID = slot.EmployeeID.String()
		}
		_ = f.SetCellValue(sheetName, cellName(6, row), employeeID)
		_ = f.SetCellValue(sheetName, cellName(7, row), slot.IsAssigned)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

// DailyAgendaPDF renders one employee's daily agenda as a single-page PDF,
// the activity sequence a housekeeper carries through the shift.
func DailyAgendaPDF(agenda *model.EmployeeDailyAgenda) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	title := fmt.Sprintf("Daily Agenda — %s", agenda.TargetDate.Format("2006-01-02"))
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	if agenda.Employee != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Employee: %s", agenda.Employee.FullName()), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 7, fmt.Sprintf("Allocated: %d min / Available: %d min", agenda.TotalMinutesAllocated, agenda.TotalMinutesAvailable), "", 1, "", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	colWidths := []float64{10, 100, 30, 20, 30}
	headers := []string{"#", "Activity", "Minutes", "Qty", "Status"}
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range agenda.Items {
		name := item.ActivityID.String()
		if item.Activity != nil {
			name = item.Activity.Name
		}
		status := "scheduled"
		if item.IsPending {
			status = "pending"
		}
		pdf.CellFormat(colWidths[0], 6, fmt.Sprintf("%d", item.Order), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[1], 6, name, "1", 0, "", false, 0, "")
		pdf.CellFormat(colWidths[2], 6, fmt.Sprintf("%d", item.Minutes), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 6, status, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering agenda pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// WeeklyConvocationSummaryPDF renders one employee's convocations over a
// week as a single-page PDF summary.
func WeeklyConvocationSummaryPDF(employee *model.Employee, convocations []model.Convocation) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	title := "Weekly Convocation Summary"
	if employee != nil {
		title = fmt.Sprintf("Weekly Convocation Summary — %s", employee.FullName())
	}
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	colWidths := []float64{30, 20, 20, 25, 30, 25, 40}
	headers := []string{"Date", "Start", "End", "Hours", "Status", "Origin", "Sent At"}
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, c := range convocations {
		hours, _ := c.TotalHours.Float64()
		pdf.CellFormat(colWidths[0], 6, c.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[1], 6, fmt.Sprintf("%d", c.StartTime), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 6, fmt.Sprintf("%d", c.EndTime), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 6, fmt.Sprintf("%.2f", hours), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 6, string(c.Status), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[5], 6, string(c.Origin), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[6], 6, c.SentAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering convocation summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}
