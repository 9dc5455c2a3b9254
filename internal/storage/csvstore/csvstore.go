// Package csvstore writes tabular frames to local CSV files, one file per
// dataset. Files are replaced wholesale on each run.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
)

// Writer persists frames under a base output directory.
type Writer struct {
	baseDir string
	logger  *common.Logger
}

// NewWriter returns a Writer rooted at baseDir. The directory is created on
// first write, not here.
func NewWriter(baseDir string, logger *common.Logger) *Writer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Writer{baseDir: baseDir, logger: logger}
}

// WriteFrame writes header plus rows to path relative to the base directory,
// creating parent directories as needed. The write goes through a temp file
// and rename so readers never observe a half-written file.
func (w *Writer) WriteFrame(path string, header []string, rows [][]string) error {
	full := filepath.Join(w.baseDir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("csvstore: create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), filepath.Base(full)+".tmp-*")
	if err != nil {
		return fmt.Errorf("csvstore: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			tmp.Close()
			return fmt.Errorf("csvstore: write header to %s: %w", path, err)
		}
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("csvstore: write row to %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("csvstore: flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csvstore: close temp file for %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("csvstore: replace %s: %w", path, err)
	}

	w.logger.Info().Str("file", full).Int("rows", len(rows)).Msg("CSV written")
	return nil
}

// Ensure Writer implements FrameWriter
var _ interfaces.FrameWriter = (*Writer)(nil)
