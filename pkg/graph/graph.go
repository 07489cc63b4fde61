package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
)

// =============================================================================
// Galaxy Serialization API
// =============================================================================

// MarshalGalaxy converts a graph to indented JSON bytes.
func MarshalGalaxy(g *galaxy.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGalaxy(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal encodes an already converted Galaxy, e.g. one carrying LayoutInfo.
func Marshal(gx Galaxy) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(gx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGalaxyFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGalaxyFile(g *galaxy.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGalaxy(g, f)
}

// WriteGalaxy writes a graph as JSON to an io.Writer.
func WriteGalaxy(g *galaxy.Graph, w io.Writer) error {
	return encode(FromGalaxy(g), w)
}

// ReadGalaxyFile reads a JSON file and returns the decoded graph.
func ReadGalaxyFile(path string) (*galaxy.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGalaxy(f)
}

// ReadGalaxy decodes a JSON galaxy from an io.Reader.
func ReadGalaxy(r io.Reader) (*galaxy.Graph, error) {
	var gx Galaxy
	if err := json.NewDecoder(r).Decode(&gx); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGalaxy(gx)
}

func encode(gx Galaxy, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(gx); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
