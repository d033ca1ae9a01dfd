package fs

import (
	"encoding/json"
	"fmt"
	"os"

	"support-chart/internal/dataset"
)

// WriteFile writes data to path and returns the written size.
// The parent directory must already exist.
func WriteFile(path string, data []byte) (int64, error) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		os.Remove(path)
		return 0, fmt.Errorf("file %s is empty after writing", path)
	}
	return info.Size(), nil
}

// SaveDataset writes the dataset as indented JSON.
func SaveDataset(path string, ds *dataset.Dataset) error {
	jsonData, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if _, err := WriteFile(path, jsonData); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	return nil
}

// LoadDataset reads a dataset previously written by SaveDataset.
func LoadDataset(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var ds dataset.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}
	if len(ds.Channels) == 0 {
		return nil, fmt.Errorf("dataset file %s has no channels", path)
	}

	return &ds, nil
}
