package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/visa-hunter/internal/ranking"
	"github.com/spigell/visa-hunter/internal/scoring"
)

const (
	folderLayout = "January_02_2006"
	fileLayout   = "20060102_150405"
	filePrefix   = "job_search_result_"
	topN         = 5

	// SheetName is the worksheet holding the results.
	SheetName    = "Job Results"
	statusColumn = "Application Status"
)

// StatusOptions are offered as a drop-down in the application status column.
var StatusOptions = []string{"Not Applied", "Applied", "Interviewing", "Offer", "Rejected"}

// Run describes a search run for the JSON dump.
type Run struct {
	ID          string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Queries     int              `json:"queries"`
	Records     []ranking.Record `json:"records"`
}

// Files are the paths written by Write.
type Files struct {
	Dir  string
	XLSX string
	JSON string
}

// Folder creates and returns the dated results folder under root.
func Folder(root string, now time.Time) (string, error) {
	dir := filepath.Join(root, now.Format(folderLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results folder: %w", err)
	}
	return dir, nil
}

// Write stores the run records as a workbook and a JSON dump inside the dated folder under root.
func Write(root string, run *Run) (*Files, error) {
	dir, err := Folder(root, run.GeneratedAt)
	if err != nil {
		return nil, err
	}

	base := filepath.Join(dir, filePrefix+run.GeneratedAt.Format(fileLayout))
	files := &Files{Dir: dir, XLSX: base + ".xlsx", JSON: base + ".json"}

	if err := writeWorkbook(files.XLSX, run.Records); err != nil {
		return nil, fmt.Errorf("write xlsx report: %w", err)
	}
	if err := writeJSON(files.JSON, run); err != nil {
		return nil, fmt.Errorf("write json report: %w", err)
	}

	return files, nil
}

// writeWorkbook writes one header row and one row per record. The status column gets a
// drop-down list so applications can be tracked in the file.
func writeWorkbook(path string, records []ranking.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	columns := ranking.Columns()
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := cells(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := addStatusValidation(f, columns, len(records)); err != nil {
		return fmt.Errorf("status validation: %w", err)
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return f.SaveAs(path)
}

// cells converts a record to row values, keeping the score numeric.
func cells(r ranking.Record) []any {
	row := r.Row()
	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v
	}
	values[1] = r.Score
	return values
}

func addStatusValidation(f *excelize.File, columns []string, rows int) error {
	idx := slices.Index(columns, statusColumn)
	if idx < 0 {
		return nil
	}

	col, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return err
	}

	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("%s2:%s%d", col, col, max(rows+1, 2))
	if err := dv.SetDropList(StatusOptions); err != nil {
		return err
	}

	return f.AddDataValidation(SheetName, dv)
}

func writeJSON(path string, run *Run) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return err
	}

	return file.Close()
}

// Summary gives the headline numbers of a run.
type Summary struct {
	Total           int
	ExplicitVisa    int
	SponsorFriendly int
	Top             []ranking.Record
}

// Summarize counts records by visa status and keeps the first five as the top matches.
// Records are expected in ranking order.
func Summarize(records []ranking.Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch scoring.VisaStatus(r.Visa) {
		case scoring.VisaYes:
			s.ExplicitVisa++
		case scoring.VisaMaybe:
			s.SponsorFriendly++
		}
	}

	n := min(topN, len(records))
	s.Top = append([]ranking.Record(nil), records[:n]...)

	return s
}

// ByCompany groups records by company for a quick review.
func ByCompany(records []ranking.Record) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, r := range records {
		key := r.Company
		if key == "" {
			key = "Unknown company"
		}
		report[key] = append(report[key], map[string]string{
			"title":    r.Title,
			"location": r.Location,
			"score":    strconv.Itoa(r.Score),
			"visa":     r.Visa,
			"salary":   r.Salary,
			"link":     r.ApplyLink,
		})
	}
	return report
}
