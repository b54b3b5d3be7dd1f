package pdf

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var ErrNoInputFiles = errors.New("no_input_files")

// MergeFiles bundles already rendered PDFs into a single document, in
// the order given.
func MergeFiles(inputs []string, outputPath string) error {
	if len(inputs) == 0 {
		return ErrNoInputFiles
	}
	if err := api.MergeCreateFile(inputs, outputPath, false, nil); err != nil {
		return fmt.Errorf("merge %d pdfs into %s: %w", len(inputs), outputPath, err)
	}
	return nil
}
