package repository

import (
	"fmt"
	"path/filepath"
	"strings"

	"StockPredict/internal/domain/models"
)

// checkSegment rejects anything that is not a single plain path element.
func checkSegment(kind, s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%s is empty: %w", kind, models.ErrInvalidInput)
	case s == "." || s == "..":
		return fmt.Errorf("%s %q is not a file name: %w", kind, s, models.ErrInvalidInput)
	case strings.ContainsAny(s, `/\`) || strings.ContainsRune(s, 0):
		return fmt.Errorf("%s %q must not contain path separators: %w", kind, s, models.ErrInvalidInput)
	case filepath.IsAbs(s) || filepath.VolumeName(s) != "":
		return fmt.Errorf("%s %q must be relative: %w", kind, s, models.ErrInvalidInput)
	}
	return nil
}

// resolve joins base with the validated exchange and file segments.
func resolve(base, exchange, file string) (string, error) {
	if err := checkSegment("exchange_name", exchange); err != nil {
		return "", err
	}
	if err := checkSegment("file_name", file); err != nil {
		return "", err
	}
	return filepath.Join(base, exchange, file), nil
}
