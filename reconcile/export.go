package reconcile

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteComparisonWorkbook saves a dry-run report as a workbook with one
// summary sheet plus sheets for differences, warnings and orphans.
func WriteComparisonWorkbook(report *ComparisonReport, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, report); err != nil {
		return err
	}
	if err := writeDifferenceSheet(f, report); err != nil {
		return err
	}
	if err := writeWarningSheet(f, report); err != nil {
		return err
	}
	if err := writeOrphanSheet(f, report); err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(filename); err != nil {
		return err
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report *ComparisonReport) error {
	sheet := "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "EntityType")
	f.SetCellValue(sheet, "B1", "New")
	f.SetCellValue(sheet, "C1", "Updated")
	f.SetCellValue(sheet, "D1", "Unchanged")
	f.SetCellValue(sheet, "E1", "Orphaned")

	rows := []struct {
		entity                            EntityType
		new, updated, unchanged, orphans int
	}{
		{EntityAccount, len(report.Accounts.New), len(report.Accounts.Updated), len(report.Accounts.Unchanged), len(report.Accounts.Orphaned)},
		{EntityContact, len(report.Contacts.New), len(report.Contacts.Updated), len(report.Contacts.Unchanged), len(report.Contacts.Orphaned)},
		{EntityJobsite, len(report.Jobsites.New), len(report.Jobsites.Updated), len(report.Jobsites.Unchanged), len(report.Jobsites.Orphaned)},
		{EntityEstimate, len(report.Estimates.New), len(report.Estimates.Updated), len(report.Estimates.Unchanged), len(report.Estimates.Orphaned)},
	}
	for i, r := range rows {
		rowNo := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+rowNo, string(r.entity))
		f.SetCellValue(sheet, "B"+rowNo, r.new)
		f.SetCellValue(sheet, "C"+rowNo, r.updated)
		f.SetCellValue(sheet, "D"+rowNo, r.unchanged)
		f.SetCellValue(sheet, "E"+rowNo, r.orphans)
	}
	return nil
}

func writeDifferenceSheet(f *excelize.File, report *ComparisonReport) error {
	sheet := "Differences"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "EntityType")
	f.SetCellValue(sheet, "B1", "RecordKey")
	f.SetCellValue(sheet, "C1", "Field")
	f.SetCellValue(sheet, "D1", "Imported")
	f.SetCellValue(sheet, "E1", "Existing")

	var diffs []Difference
	diffs = append(diffs, report.Accounts.Differences...)
	diffs = append(diffs, report.Contacts.Differences...)
	diffs = append(diffs, report.Jobsites.Differences...)
	diffs = append(diffs, report.Estimates.Differences...)

	for i, d := range diffs {
		rowNo := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+rowNo, string(d.EntityType))
		f.SetCellValue(sheet, "B"+rowNo, d.RecordKey)
		f.SetCellValue(sheet, "C"+rowNo, d.Field)
		f.SetCellValue(sheet, "D"+rowNo, fmt.Sprint(d.Imported))
		f.SetCellValue(sheet, "E"+rowNo, fmt.Sprint(d.Existing))
	}
	return nil
}

func writeWarningSheet(f *excelize.File, report *ComparisonReport) error {
	sheet := "Warnings"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Code")
	f.SetCellValue(sheet, "B1", "EntityType")
	f.SetCellValue(sheet, "C1", "RecordKey")
	f.SetCellValue(sheet, "D1", "Message")

	for i, w := range report.Warnings {
		rowNo := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+rowNo, string(w.Code))
		f.SetCellValue(sheet, "B"+rowNo, string(w.EntityType))
		f.SetCellValue(sheet, "C"+rowNo, w.RecordKey)
		f.SetCellValue(sheet, "D"+rowNo, w.Message)
	}
	return nil
}

func writeOrphanSheet(f *excelize.File, report *ComparisonReport) error {
	sheet := "Orphans"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "EntityType")
	f.SetCellValue(sheet, "B1", "ExternalId")
	f.SetCellValue(sheet, "C1", "InternalId")
	f.SetCellValue(sheet, "D1", "Provenance")
	f.SetCellValue(sheet, "E1", "Note")

	rowNo := 2
	writeOrphan := func(entity EntityType, rec Row, p Provenance) {
		no := fmt.Sprint(rowNo)
		f.SetCellValue(sheet, "A"+no, string(entity))
		f.SetCellValue(sheet, "B"+no, rec.ExternalKey())
		f.SetCellValue(sheet, "C"+no, rec.InternalKey())
		f.SetCellValue(sheet, "D"+no, string(p.Source))
		f.SetCellValue(sheet, "E"+no, p.Note)
		rowNo++
	}
	for _, o := range report.Accounts.Orphaned {
		writeOrphan(EntityAccount, o.Record, o.Provenance)
	}
	for _, o := range report.Contacts.Orphaned {
		writeOrphan(EntityContact, o.Record, o.Provenance)
	}
	for _, o := range report.Jobsites.Orphaned {
		writeOrphan(EntityJobsite, o.Record, o.Provenance)
	}
	for _, o := range report.Estimates.Orphaned {
		writeOrphan(EntityEstimate, o.Record, o.Provenance)
	}
	return nil
}
