package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/ps-vitor/landscraper/internal/domain"
)

// CSVRepository appends rows to a comma-separated file. The header is
// written once, when the file is created.
type CSVRepository struct {
	path   string
	header []string
	mu     sync.Mutex
}

func NewCSVRepository(path string, header []string) *CSVRepository {
	return &CSVRepository{path: path, header: append([]string(nil), header...)}
}

func (r *CSVRepository) Path() string { return r.path }

// EnsureSchema creates the file with its header row if it does not exist.
// An existing file is left alone.
func (r *CSVRepository) EnsureSchema(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureHeader()
}

func (r *CSVRepository) ensureHeader() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", r.path, err)
	}

	w := newWriter(f)
	if err := w.Write(r.header); err != nil {
		f.Close()
		return fmt.Errorf("writing header to %s: %w", r.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing header to %s: %w", r.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Save appends one line per record after whatever the file already holds.
func (r *CSVRepository) Save(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureHeader(); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", r.path, err)
	}
	defer f.Close()

	w := newWriter(f)
	for _, rec := range records {
		if err := w.Write(rec.Values()); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	return f.Sync()
}

// FindAll reads every data row back. A missing file yields no rows.
func (r *CSVRepository) FindAll(ctx context.Context) ([]domain.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", r.path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", r.path, err)
	}

	var rows []domain.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", r.path, err)
		}
		row := make(domain.Row, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// newWriter terminates records with CRLF.
func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}
