package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/WillZhangFly/package-outdated-why/internal/analyzer"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report *analyzer.AnalysisReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
