// Package proficiency loads the external solved-problem counts that drive
// algorithm topic mastery.
//
// A dataset maps a topic slug to the number of problems solved under it. Two
// JSON shapes are accepted:
//
//	{"dynamic-programming": 31, "graphs": 12}
//	{"solved": {"dynamic-programming": 31, "graphs": 12}}
//
// A missing dataset is not an error for the galaxy: topics simply render as
// unexplored. Callers decide whether a failed fetch should abort or degrade.
package proficiency

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/skillgalaxy/pkg/cache"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
)

// Dataset maps topic slug to solved count. A nil Dataset is valid and empty.
type Dataset map[string]int

// Solved returns the count for slug, or 0.
func (d Dataset) Solved(slug string) int { return d[slug] }

// Hash returns a content hash used in graph cache keys. Equal datasets hash
// equally regardless of insertion order; an empty dataset hashes to "".
func (d Dataset) Hash() string {
	if len(d) == 0 {
		return ""
	}
	data, _ := json.Marshal(map[string]int(d)) // map keys are sorted
	return cache.Hash(data)
}

type wrapped struct {
	Solved map[string]int `json:"solved"`
}

// Decode parses either accepted JSON shape. Negative counts are clamped to 0.
func Decode(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (Dataset, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Dataset{}, nil
	}

	var w wrapped
	if err := json.Unmarshal(data, &w); err == nil && w.Solved != nil {
		return clamp(w.Solved), nil
	}
	var flat map[string]int
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode proficiency dataset")
	}
	return clamp(flat), nil
}

func clamp(m map[string]int) Dataset {
	out := make(Dataset, len(m))
	for k, v := range m {
		out[k] = max(v, 0)
	}
	return out
}

// LoadFile reads a dataset from disk.
func LoadFile(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "proficiency file not found: %s", path)
		}
		return nil, fmt.Errorf("read proficiency: %w", err)
	}
	return parse(data)
}
