package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	verrors "github.com/colbench/colbench/internal/errors"
)

// ArtifactName is the conventional file name of a run's result dump.
const ArtifactName = "results.json.sz"

// WriteArtifact writes the run's records as snappy-compressed JSON.
func WriteArtifact(path string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return verrors.NewResultsError(verrors.CodeArtifactFailed, "failed to encode records", err)
	}

	compressed := snappy.Encode(nil, data)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return verrors.NewResultsError(verrors.CodeArtifactFailed, "failed to create artifact directory", err)
	}
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return verrors.NewResultsError(verrors.CodeArtifactFailed, "failed to write artifact", err)
	}
	return nil
}

// ReadArtifact reads records back from a snappy-compressed artifact.
func ReadArtifact(path string) ([]Record, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, verrors.NewResultsError(verrors.CodeArtifactFailed, "failed to read artifact", err)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, verrors.NewResultsError(verrors.CodeArtifactFailed, "failed to decompress artifact", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, verrors.NewResultsError(verrors.CodeArtifactFailed, "failed to decode artifact", err)
	}
	return records, nil
}
