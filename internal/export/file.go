package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/octobees/leads-generator/outreach/internal/dto"
)

// FileSink writes the lead batch of a run to a JSON file, replacing the previous run's file.
type FileSink struct {
	path string
}

// NewFileSink targets path; relative paths resolve against the working directory.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the destination file.
func (s *FileSink) Path() string {
	return s.path
}

// StagedFile is a fully written temp file waiting to be moved over the destination.
type StagedFile struct {
	tmp  string
	dest string
}

// Stage serializes records as an indented JSON array into a temp file next to the
// destination. Nothing visible changes until Commit.
func (s *FileSink) Stage(records []dto.LeadRecord) (*StagedFile, error) {
	if records == nil {
		records = []dto.LeadRecord{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal leads")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return nil, eris.Wrapf(err, "export: create temp file in %s", dir)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, eris.Wrap(err, "export: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, eris.Wrap(err, "export: close temp file")
	}

	return &StagedFile{tmp: tmp.Name(), dest: s.path}, nil
}

// Commit atomically replaces the destination with the staged content.
func (f *StagedFile) Commit() error {
	if err := os.Chmod(f.tmp, 0o644); err != nil {
		return eris.Wrap(err, "export: chmod temp file")
	}
	if err := os.Rename(f.tmp, f.dest); err != nil {
		return eris.Wrapf(err, "export: replace %s", f.dest)
	}
	return nil
}

// Discard removes the staged file. Safe to call after Commit.
func (f *StagedFile) Discard() {
	_ = os.Remove(f.tmp)
}
