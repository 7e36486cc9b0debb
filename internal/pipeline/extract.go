package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"usagelog/internal"
)

// Columns a candidate file must carry; everything else may be absent and
// defaults to empty. Matches the validator's structural-absence rule.
var requiredColumns = []string{"company_name", "company_tax_id", "equipment_name"}

// ExtractCandidates reads an import file into candidate rows in store column
// order. Columns are matched by header name, so authors may reorder or omit
// optional columns; row numbers count from the file (header is row 1).
func ExtractCandidates(inputType, path string) ([]internal.CandidateRow, error) {
	switch inputType {
	case "xlsx":
		return extractXLSX(path)
	case "html":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return extractHTMLTable(string(blob))
	default:
		return nil, fmt.Errorf("unsupported input type: %s", inputType)
	}
}

func extractXLSX(path string) ([]internal.CandidateRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	colIdx, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]internal.CandidateRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cells := orderCells(row, colIdx)
		if isBlankRow(cells) {
			continue
		}
		out = append(out, internal.CandidateRow{RowNumber: i + 2, Cells: cells})
	}
	return out, nil
}

func extractHTMLTable(html string) ([]internal.CandidateRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in html input")
	}
	trs := table.Find("tr")
	if trs.Length() < 1 {
		return nil, fmt.Errorf("table has no rows")
	}

	headers := []string{}
	trs.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})
	colIdx, err := mapHeader(headers)
	if err != nil {
		return nil, err
	}

	out := []internal.CandidateRow{}
	trs.Slice(1, trs.Length()).Each(func(i int, tr *goquery.Selection) {
		cells := []string{}
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		ordered := orderCells(cells, colIdx)
		if isBlankRow(ordered) {
			return
		}
		out = append(out, internal.CandidateRow{RowNumber: i + 2, Cells: ordered})
	})
	return out, nil
}

// mapHeader resolves each store column to its position in the file, and
// rejects files missing a required column outright: a misaligned template is
// a file-level error, not a per-row one.
func mapHeader(header []string) (map[int]int, error) {
	byName := map[string]int{}
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	colIdx := map[int]int{}
	for col, name := range internal.UsageColumns {
		if i, ok := byName[name]; ok {
			colIdx[col] = i
		}
	}
	return colIdx, nil
}

func orderCells(row []string, colIdx map[int]int) []string {
	out := make([]string, internal.UsageColumnCount)
	for col := 0; col < internal.UsageColumnCount; col++ {
		if i, ok := colIdx[col]; ok && i < len(row) {
			out[col] = strings.TrimSpace(row[i])
		}
	}
	return out
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
