// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tablestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/derivindex/pkg/types"
)

// Export holds one run's metadata and entries for serialization.
type Export struct {
	Meta    types.TableMeta    `json:"meta" yaml:"meta"`
	Entries []types.TableEntry `json:"entries" yaml:"entries"`
}

// ExportYAML writes a run to tablesDir/index/export.yaml and returns the
// path written.
func (s *Store) ExportYAML(ctx context.Context, runID string) (string, error) {
	export, err := s.export(ctx, runID)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.tablesDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(export)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes a run to tablesDir/index/export.json and returns the
// path written.
func (s *Store) ExportJSON(ctx context.Context, runID string) (string, error) {
	export, err := s.export(ctx, runID)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.tablesDir, indexDir, "export.json")
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) export(ctx context.Context, runID string) (Export, error) {
	meta, err := s.Get(ctx, runID)
	if err != nil {
		return Export{}, err
	}
	entries, err := s.Entries(ctx, runID)
	if err != nil {
		return Export{}, err
	}
	return Export{Meta: meta, Entries: entries}, nil
}
