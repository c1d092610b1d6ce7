package extract

import (
	"fmt"
	"os"
)

// textExtractor reads plain-text formats (txt, md) verbatim.
type textExtractor struct{}

func (textExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrExtraction, path, err)
	}
	return string(data), nil
}
