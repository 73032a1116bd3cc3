package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dkoosis/morphd/pkg/morph"
)

// JSON encodes results as compact single-line JSON, the wire format.
type JSON struct{}

// NewJSON creates a JSON encoder.
func NewJSON() *JSON {
	return &JSON{}
}

// Encode implements Encoder.
func (j *JSON) Encode(r morph.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalize(r)); err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// normalize replaces nil slices with empty ones so arrays never encode as null.
// The input is not modified.
func normalize(r morph.AnalysisResult) morph.AnalysisResult {
	out := morph.AnalysisResult{
		Word:     r.Word,
		Error:    r.Error,
		Analyses: make([]morph.DetailedAnalysis, len(r.Analyses)),
	}
	for i, a := range r.Analyses {
		morphemes := make([]morph.MorphemeDetail, len(a.Morphemes))
		for j, m := range a.Morphemes {
			if m.Labels == nil {
				m.Labels = []string{}
			}
			morphemes[j] = m
		}
		out.Analyses[i] = morph.DetailedAnalysis{Stem: a.Stem, Morphemes: morphemes}
	}
	return out
}
