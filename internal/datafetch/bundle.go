// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package datafetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/streamrank/internal/models"
)

// ErrUnsupportedFormat is returned for bundle files that are neither JSON
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported bundle format")

type bundleFormat int

const (
	formatJSON bundleFormat = iota
	formatYAML
)

func formatFor(path string) (bundleFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadBundle reads a bundle file. The format is chosen by extension.
func LoadBundle(path string) (*models.Bundle, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return DecodeBundle(data, format == formatYAML)
}

// DecodeBundle parses a bundle from JSON, or from YAML when isYAML is set.
func DecodeBundle(data []byte, isYAML bool) (*models.Bundle, error) {
	var b models.Bundle
	if isYAML {
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode yaml bundle: %w", err)
		}
		return &b, nil
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode json bundle: %w", err)
	}
	return &b, nil
}

// WriteBundle writes b to path atomically, choosing the format by extension.
func WriteBundle(path string, b *models.Bundle) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatYAML:
		data, err = yaml.Marshal(b)
	default:
		data, err = json.MarshalIndent(b, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bundle-*")
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename bundle: %w", err)
	}
	return nil
}
