package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/visa-hunter/internal/ranking"
)

var generatedAt = time.Date(2025, time.March, 7, 9, 5, 3, 0, time.UTC)

func records() []ranking.Record {
	return []ranking.Record{
		{Title: "Go Developer", Company: "Acme", Score: 160, Visa: "Yes", Description: "Line one,\n\"quoted\"", Status: "Not Applied", CoverLetter: "No"},
		{Title: "SRE", Company: "Globex", Score: 60, Visa: "Maybe"},
		{Title: "QA", Company: "Acme", Score: 10, Visa: "Unknown"},
	}
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	run := &Run{ID: "run-1", GeneratedAt: generatedAt, Queries: 3, Records: records()}

	files, err := Write(root, run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if files.Dir != filepath.Join(root, "March_07_2025") {
		t.Fatalf("unexpected folder: %s", files.Dir)
	}
	if filepath.Base(files.XLSX) != "job_search_result_20250307_090503.xlsx" {
		t.Fatalf("unexpected workbook name: %s", files.XLSX)
	}

	f, err := excelize.OpenFile(files.XLSX)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], ranking.Columns()) {
		t.Fatalf("unexpected header: %q", rows[0])
	}
	if rows[1][1] != "160" || rows[1][3] != "Go Developer" || rows[1][8] != "Line one,\n\"quoted\"" {
		t.Fatalf("unexpected first row: %q", rows[1])
	}
	if rows[1][12] != "Not Applied" {
		t.Fatalf("expected default application status, got %q", rows[1][12])
	}

	validations, err := f.GetDataValidations(SheetName)
	if err != nil {
		t.Fatalf("read validations: %v", err)
	}
	if len(validations) != 1 {
		t.Fatalf("expected one validation, got %d", len(validations))
	}
	if validations[0].Sqref != "M2:M4" {
		t.Fatalf("unexpected validation range: %s", validations[0].Sqref)
	}
	if !strings.Contains(validations[0].Formula1, strings.Join(StatusOptions, ",")) {
		t.Fatalf("unexpected drop list: %s", validations[0].Formula1)
	}

	data, err := os.ReadFile(files.JSON)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var dumped Run
	if err := json.Unmarshal(data, &dumped); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if dumped.ID != "run-1" || len(dumped.Records) != 3 || dumped.Records[1].Title != "SRE" {
		t.Fatalf("unexpected dump: %+v", dumped)
	}
}

func TestWriteEmptyRun(t *testing.T) {
	files, err := Write(t.TempDir(), &Run{ID: "run-2", GeneratedAt: generatedAt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(files.XLSX)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the header row, got %d", len(rows))
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(records())
	if s.Total != 3 || s.ExplicitVisa != 1 || s.SponsorFriendly != 1 || len(s.Top) != 3 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	var many []ranking.Record
	for i := 0; i < 8; i++ {
		many = append(many, ranking.Record{Score: 100 - i})
	}
	if top := Summarize(many).Top; len(top) != 5 || top[0].Score != 100 {
		t.Fatalf("unexpected top: %+v", top)
	}

	if empty := Summarize(nil); empty.Total != 0 || len(empty.Top) != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestByCompany(t *testing.T) {
	report := ByCompany(append(records(), ranking.Record{Title: "Anon"}))

	if len(report["Acme"]) != 2 || len(report["Globex"]) != 1 || len(report["Unknown company"]) != 1 {
		t.Fatalf("unexpected grouping: %v", report)
	}
	if report["Acme"][1]["title"] != "QA" || report["Acme"][0]["score"] != "160" {
		t.Fatalf("unexpected entries: %v", report["Acme"])
	}
}
