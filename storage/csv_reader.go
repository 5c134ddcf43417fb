package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"carvalu/models"
	"carvalu/utils"
)

// DateLayout is the calendar-day format used for fetch dates in output files.
const DateLayout = "2006-01-02"

// ErrNoExtracts is returned when an input directory holds no CSV files.
var ErrNoExtracts = errors.New("no csv extracts found")

const utf8BOM = "\uFEFF"

// CSVReader loads listing batches from a CSV file or a directory of periodic extracts.
type CSVReader struct {
	workers int
	logger  *utils.Logger
}

// NewCSVReader creates a CSVReader that reads up to workers extracts at once.
func NewCSVReader(workers int, logger *utils.Logger) *CSVReader {
	return &CSVReader{workers: workers, logger: logger}
}

// Read loads path. A directory is merged with MergeExtracts; a file is read as is.
func (r *CSVReader) Read(path string) (*models.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("csv: stat %q: %w", path, err)
	}
	if info.IsDir() {
		return r.MergeExtracts(path)
	}
	return ReadTable(path)
}

// MergeExtracts reads every *.csv file in dir and concatenates their rows.
// Files are merged in name order. The merged header is the union of all headers
// in order of first appearance; cells missing from a file are left empty.
func (r *CSVReader) MergeExtracts(dir string) (*models.Table, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("csv: list %q: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("csv: %q: %w", dir, ErrNoExtracts)
	}
	sort.Strings(paths)

	tables := make([]*models.Table, len(paths))
	errs := make([]error, len(paths))
	pool := utils.NewWorkerPool(r.workers)
	for i, p := range paths {
		pool.Submit(func() {
			tables[i], errs[i] = ReadTable(p)
		})
	}
	pool.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	merged := mergeTables(tables)
	r.logger.Info("[csv] Merged %d extracts from %s: %d rows, %d columns",
		len(paths), dir, len(merged.Rows), len(merged.Columns))
	return merged, nil
}

// ReadTable reads one CSV file with a header row.
func ReadTable(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := parseTable(f)
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	return t, nil
}

func parseTable(src io.Reader) (*models.Table, error) {
	br := bufio.NewReader(src)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &models.Table{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := &models.Table{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func mergeTables(tables []*models.Table) *models.Table {
	merged := &models.Table{}
	index := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(merged.Columns)
				merged.Columns = append(merged.Columns, c)
			}
		}
	}

	for _, t := range tables {
		for _, rec := range t.Rows {
			row := make([]string, len(merged.Columns))
			for i, c := range t.Columns {
				if i < len(rec) {
					row[index[c]] = rec[i]
				}
			}
			merged.Rows = append(merged.Rows, row)
		}
	}
	return merged
}
