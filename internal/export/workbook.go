// Package export renders a project's schedule and cumulative series as an
// XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/xuri/excelize/v2"
)

const (
	SheetCumulative = "Cumulative"
	SheetSchedule   = "Schedule"

	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var cumulativeHeader = []any{
	"Year", "Month", "Week", "Dates",
	"Weekly plan %", "Weekly actual %",
	"Cumulative plan %", "Cumulative actual %", "Deviation",
}

// Workbook builds the export for one computed series. The caller owns the
// returned file and must Close it.
func Workbook(series *app.SeriesResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetCumulative); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSchedule); err != nil {
		f.Close()
		return nil, fmt.Errorf("adding schedule sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := writeCumulative(f, series.Points, bold); err != nil {
		f.Close()
		return nil, err
	}
	year := series.Year
	if year == 0 && series.Project != nil {
		year = series.Project.Year
	}
	if err := writeSchedule(f, series.Items, series.Buckets, year, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Write renders the workbook for series to w.
func Write(w io.Writer, series *app.SeriesResponse) error {
	f, err := Workbook(series)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeCumulative(f *excelize.File, points []progress.CumulativeResult, headerStyle int) error {
	if err := f.SetSheetRow(SheetCumulative, "A1", &cumulativeHeader); err != nil {
		return fmt.Errorf("writing cumulative header: %w", err)
	}
	for i, p := range points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			p.Year, p.Month, p.Week, p.Label,
			p.WeeklyPlan, p.WeeklyActual,
			p.CumulativePlan, p.CumulativeActual, p.CumulativeDeviation,
		}
		if err := f.SetSheetRow(SheetCumulative, cell, &row); err != nil {
			return fmt.Errorf("writing cumulative row %d: %w", i+2, err)
		}
	}
	if err := f.SetRowStyle(SheetCumulative, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetCumulative, "D", "D", 18)
}

// writeSchedule lays out one row per sub-activity with a plan and an actual
// column for every bucket.
func writeSchedule(f *excelize.File, roots []*domain.WorkItem, buckets []calendar.WeekBucket, year, headerStyle int) error {
	header := []any{"Activity", "Sub-activity", "Weight %"}
	for _, b := range buckets {
		label := fmt.Sprintf("%d-%02d W%d", b.Year, b.Month, b.Week)
		header = append(header, label+" plan", label+" actual")
	}
	if err := f.SetSheetRow(SheetSchedule, "A1", &header); err != nil {
		return fmt.Errorf("writing schedule header: %w", err)
	}

	rowNum := 2
	for _, activity := range roots {
		for _, sub := range activity.Children {
			totals, err := progress.WeeklyTotals([]*domain.WorkItem{sub}, buckets, year)
			if err != nil {
				return fmt.Errorf("summing %q: %w", sub.Name, err)
			}
			row := []any{activity.Name, sub.Name, sub.Weight}
			for _, t := range totals {
				row = append(row, t.Plan, t.Actual)
			}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(SheetSchedule, cell, &row); err != nil {
				return fmt.Errorf("writing schedule row %d: %w", rowNum, err)
			}
			rowNum++
		}
	}

	if err := f.SetRowStyle(SheetSchedule, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetPanes(SheetSchedule, &excelize.Panes{
		Freeze:      true,
		XSplit:      3,
		YSplit:      1,
		TopLeftCell: "D2",
		ActivePane:  "bottomRight",
	})
}
