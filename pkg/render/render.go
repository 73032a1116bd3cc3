// Package render encodes analysis results as output records.
package render

import "github.com/dkoosis/morphd/pkg/morph"

// Encoder converts one result into a single output record, without the
// trailing newline.
type Encoder interface {
	Encode(r morph.AnalysisResult) ([]byte, error)
}
