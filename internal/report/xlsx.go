package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"docroute/internal/domain"
)

const (
	segmentsSheet = "Segments"
	pagesSheet    = "Pages"
)

// WriteXLSX writes a workbook with a Segments sheet and a Pages sheet covering every plan.
func WriteXLSX(w io.Writer, plans []*domain.RoutingPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", segmentsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(pagesSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	var segRows, pgRows [][]string
	for _, plan := range plans {
		segRows = append(segRows, segmentRows(plan)...)
		if plan != nil {
			pgRows = append(pgRows, pageRows(plan.Analysis)...)
		}
	}

	if err := writeSheet(f, segmentsSheet, headerStyle, segmentColumns, segRows); err != nil {
		return err
	}
	if err := writeSheet(f, pagesSheet, headerStyle, pageColumns, pgRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []string, rows [][]string) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("opening %s sheet: %w", sheet, err)
	}
	if err := sw.SetRow("A1", toCells(header), excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing %s sheet: %w", sheet, err)
	}
	return nil
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
