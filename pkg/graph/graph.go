package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/studytree/pkg/dag"
)

// MaxDocumentSize bounds the JSON documents ReadGraph accepts.
const MaxDocumentSize = 64 << 20

// ErrDocumentTooLarge is returned for documents above MaxDocumentSize.
var ErrDocumentTooLarge = errors.New("graph document too large")

// MarshalGraph encodes g as indented JSON followed by a newline.
// Nodes keep their registration order.
func MarshalGraph(g *dag.DAG) ([]byte, error) {
	data, err := json.MarshalIndent(FromDAG(g), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteGraph writes g as JSON to w.
func WriteGraph(g *dag.DAG, w io.Writer) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteGraphFile writes g to path. The document is written to a temporary
// file first and renamed into place, so readers never see half a graph.
func WriteGraphFile(g *dag.DAG, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".graph-*.json")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

// ReadGraph decodes a JSON graph from r and rebuilds the DAG. The rebuilt
// graph is validated, so a document with dangling edges or skipped rows is
// rejected.
func ReadGraph(r io.Reader) (*dag.DAG, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, ErrDocumentTooLarge
	}

	doc, err := UnmarshalGraph(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDAG(doc)
}

// ReadGraphFile reads the JSON graph stored at path.
func ReadGraphFile(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
