package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxExtractor flattens spreadsheet rows into space-joined lines,
// sheet by sheet.
type xlsxExtractor struct{}

func (xlsxExtractor) Extract(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening spreadsheet %s: %v", ErrExtraction, path, err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("%w: reading sheet %q in %s: %v", ErrExtraction, sheet, path, err)
		}
		for _, row := range rows {
			lines = append(lines, strings.Join(row, " "))
		}
	}

	return strings.Join(lines, "\n"), nil
}
