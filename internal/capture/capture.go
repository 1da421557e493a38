// Package capture creates a per-run data-capture folder and dumps
// intermediate pipeline state to it, mirroring the source driver's
// habit of writing a CSV snapshot after nearly every stage (RefDict
// after tokenizing, after correction, the block-pair list, the final
// LinkIndex) so a run can be inspected or replayed after the fact.
package capture

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// Folder is one run's capture directory, tagged with a random UUID so
// concurrent runs against the same base directory never collide.
type Folder struct {
	Path string
}

// New creates base/<uuid>/ and returns a Folder rooted there. If base
// is empty, capture is a no-op: every Folder method becomes a silent
// success, since not every run wants a capture trail.
func New(base string) (*Folder, error) {
	if base == "" {
		return &Folder{}, nil
	}
	path := filepath.Join(base, uuid.New().String())
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("capture: create folder: %w", err)
	}
	return &Folder{Path: path}, nil
}

func (f *Folder) enabled() bool { return f.Path != "" }

// Subfolder creates name within f's directory and returns a Folder
// rooted there, for per-iteration snapshots (spec §7: "per-run folder
// and per-iteration subfolders"). A no-op Folder's subfolder is itself
// a no-op.
func (f *Folder) Subfolder(name string) (*Folder, error) {
	if !f.enabled() {
		return f, nil
	}
	path := filepath.Join(f.Path, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("capture: create subfolder %s: %w", name, err)
	}
	return &Folder{Path: path}, nil
}

// WriteCSV dumps rows (with a header row) to name within the capture
// folder. A no-op Folder silently discards the write.
func (f *Folder) WriteCSV(name string, header []string, rows [][]string) error {
	if !f.enabled() {
		return nil
	}
	path := filepath.Join(f.Path, name)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: create %s: %w", name, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("capture: write header to %s: %w", name, err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("capture: write row to %s: %w", name, err)
		}
	}
	return w.Error()
}

// WriteRefDict dumps a refID -> tokens snapshot, one row per reference,
// tokens joined into a single column.
func (f *Folder) WriteRefDict(name string, refIDs []string, tokensOf func(refID string) []string) error {
	if !f.enabled() {
		return nil
	}
	rows := make([][]string, 0, len(refIDs))
	for _, ref := range refIDs {
		tokens := tokensOf(ref)
		joined := ""
		for i, t := range tokens {
			if i > 0 {
				joined += " "
			}
			joined += t
		}
		rows = append(rows, []string{ref, joined})
	}
	return f.WriteCSV(name, []string{"ref_id", "tokens"}, rows)
}

// WriteLinkIndex dumps a refID -> clusterID snapshot.
func (f *Folder) WriteLinkIndex(name string, linkIndex map[string]string) error {
	if !f.enabled() {
		return nil
	}
	refIDs := make([]string, 0, len(linkIndex))
	for ref := range linkIndex {
		refIDs = append(refIDs, ref)
	}
	sort.Strings(refIDs)
	rows := make([][]string, 0, len(refIDs))
	for _, ref := range refIDs {
		rows = append(rows, []string{ref, linkIndex[ref]})
	}
	return f.WriteCSV(name, []string{"ref_id", "cluster_id"}, rows)
}
