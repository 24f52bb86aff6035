/*
PURPOSE:
  Writes the run summary as a single, self-contained JSON report.

REQUIREMENTS:
  User-specified:
  - The report must be a complete re-creation of the run (no external refs).
  - Written to a caller-specified destination.

  Implementation-discovered:
  - Question text is often Chinese; keep it readable (no \u escapes for
    non-ASCII, no HTML escaping of <, >, &).
  - Parent directories may not exist yet.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Consumes: internal/model.Summary

ERROR HANDLING:
  - Returns error on directory creation, file creation or encode failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder with 2-space indentation.

USAGE:
  err := output.WriteReport("results/benchmark_results.json", summary)

SELF-HEALING INSTRUCTIONS:
  - None specific.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - None.
*/

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/daryltucker/lexbench/internal/model"
)

// WriteReport writes summary to path, creating parent directories.
func WriteReport(path string, summary model.Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if err := EncodeReport(f, summary); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return f.Close()
}

// EncodeReport writes summary as indented JSON to w.
func EncodeReport(w io.Writer, summary model.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// ReadReport loads a report previously written by WriteReport.
func ReadReport(path string) (model.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Summary{}, fmt.Errorf("read report: %w", err)
	}
	var s model.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Summary{}, fmt.Errorf("parse report %s: %w", path, err)
	}
	return s, nil
}
