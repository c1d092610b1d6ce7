package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// csvExtractor flattens each CSV record into one space-joined line,
// matching the row-per-line shape used for spreadsheets.
type csvExtractor struct{}

func (csvExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", ErrExtraction, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", ErrExtraction, path, err)
	}

	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, strings.Join(record, " "))
	}

	return strings.Join(lines, "\n"), nil
}
