// Package morph defines the analyzer-agnostic result model and the capability
// interfaces an analysis engine must satisfy.
package morph

// AnalysisResult is the record produced for one input word.
// Error is non-nil only on failure, in which case Analyses is empty.
type AnalysisResult struct {
	Word     string             `json:"word"`
	Analyses []DetailedAnalysis `json:"analyses"`
	Error    *string            `json:"error"`
}

// DetailedAnalysis is one candidate parse of a word.
type DetailedAnalysis struct {
	Stem      string           `json:"stem"`
	Morphemes []MorphemeDetail `json:"morphemes"` // root-to-suffix order
}

// MorphemeDetail describes one morpheme attachment within a parse.
type MorphemeDetail struct {
	Surface     string   `json:"surface"`
	LexicalForm string   `json:"lexicalForm"`
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Labels      []string `json:"labels"`
	HasChange   bool     `json:"hasChange"`
}

// Success returns a result carrying the given analyses. A nil slice is
// normalized to empty so the record always serializes an array.
func Success(word string, analyses []DetailedAnalysis) AnalysisResult {
	if analyses == nil {
		analyses = []DetailedAnalysis{}
	}
	return AnalysisResult{Word: word, Analyses: analyses}
}

// Failure returns a result for a word whose analysis failed with err.
func Failure(word string, err error) AnalysisResult {
	msg := err.Error()
	return AnalysisResult{Word: word, Analyses: []DetailedAnalysis{}, Error: &msg}
}

// Failed reports whether the result carries an error.
func (r AnalysisResult) Failed() bool {
	return r.Error != nil
}

// ErrorMessage returns the error text, or "" for a successful result.
func (r AnalysisResult) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// NewMorphemeDetail builds a MorphemeDetail with HasChange derived from the
// surface and lexical forms.
func NewMorphemeDetail(surface, lexicalForm, id, typ string, labels []string) MorphemeDetail {
	if labels == nil {
		labels = []string{}
	}
	return MorphemeDetail{
		Surface:     surface,
		LexicalForm: lexicalForm,
		ID:          id,
		Type:        typ,
		Labels:      labels,
		HasChange:   surface != lexicalForm,
	}
}
