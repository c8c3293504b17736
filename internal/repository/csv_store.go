package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"StockPredict/internal/domain/models"
	domrepo "StockPredict/internal/domain/repository"
	applogger "StockPredict/pkg/logger"

	"github.com/google/renameio/v2"
)

var csvHeader = []string{"stock_id", "timestamp", "stock_price"}

// CSVStore implements PointStore on flat CSV files below two base directories.
type CSVStore struct {
	inputDir  string
	outputDir string
	l         *applogger.Logger
}

// NewCSVStore creates a file store reading from inputDir and writing below outputDir.
func NewCSVStore(inputDir, outputDir string, l *applogger.Logger) domrepo.PointStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CSVStore{inputDir: inputDir, outputDir: outputDir, l: l}
}

// ReadPoints reads columns positionally as (stock_id, timestamp, stock_price).
// The first row is a header and is skipped whatever its names.
func (s *CSVStore) ReadPoints(ctx context.Context, exchange, file string) ([]models.DataPoint, error) {
	path, err := resolve(s.inputDir, exchange, file)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.l.Debug("csv read", applogger.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", filepath.Join(exchange, file), models.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %v: %w", path, err, models.ErrIO)
	}
	defer f.Close()

	return decodePoints(f, filepath.Join(exchange, file))
}

// decodePoints reports errors against name, which is safe to show to clients.
func decodePoints(r io.Reader, name string) ([]models.DataPoint, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header %s: %v: %w", name, err, models.ErrIO)
	}

	var points []models.DataPoint
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("parse %s: %v: %w", name, err, models.ErrInvalidInput)
			}
			return nil, fmt.Errorf("read %s: %v: %w", name, err, models.ErrIO)
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("%s line %d: want 3 columns, got %d: %w", name, line, len(record), models.ErrInvalidInput)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, fmt.Errorf("%s line %d: bad price %q: %w", name, line, record[2], models.ErrInvalidInput)
		}
		points = append(points, models.DataPoint{
			StockID:    strings.TrimSpace(record[0]),
			Timestamp:  strings.TrimSpace(record[1]),
			StockPrice: price,
		})
	}
	return points, nil
}

// WritePoints replaces the target file through a temp file in the same directory
// and an atomic rename. The exchange directory must already exist.
func (s *CSVStore) WritePoints(ctx context.Context, exchange, name string, points []models.DataPoint) (string, error) {
	path, err := resolve(s.outputDir, exchange, name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(0o644),
	)
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %v: %w", path, err, models.ErrIO)
	}
	defer pf.Cleanup()

	if err := encodePoints(pf, points); err != nil {
		return "", fmt.Errorf("write %s: %v: %w", path, err, models.ErrIO)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("replace %s: %v: %w", path, err, models.ErrIO)
	}
	s.l.Debug("csv written", applogger.String("path", path), applogger.Int("rows", len(points)))
	return path, nil
}

func encodePoints(w io.Writer, points []models.DataPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{p.StockID, p.Timestamp, FormatPrice(p.StockPrice)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatPrice renders the shortest round-trip decimal, keeping a trailing ".0"
// on integral values so prices always read back as floats.
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
