package morph

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMorphemeDetail_DerivesHasChange(t *testing.T) {
	tests := []struct {
		name    string
		surface string
		lexical string
		want    bool
	}{
		{"identical", "foo", "foo", false},
		{"archiphoneme", "ı", "I", true},
		{"harmony", "ler", "lAr", true},
		{"empty both", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewMorphemeDetail(tt.surface, tt.lexical, "X", "Noun", nil)
			assert.Equal(t, tt.want, d.HasChange)
			assert.NotNil(t, d.Labels, "labels must serialize as an array")
		})
	}
}

func TestFailure_HasEmptyAnalysesAndError(t *testing.T) {
	r := Failure("xyzzy", errors.New("no analysis found"))

	assert.True(t, r.Failed())
	assert.Equal(t, "no analysis found", r.ErrorMessage())
	require.NotNil(t, r.Analyses)
	assert.Empty(t, r.Analyses)
}

func TestSuccess_NilAnalysesSerializeAsArray(t *testing.T) {
	r := Success("foo", nil)

	assert.False(t, r.Failed())
	assert.Equal(t, "", r.ErrorMessage())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"word":"foo","analyses":[],"error":null}`, string(data))
}

func TestAnalyzerFunc(t *testing.T) {
	called := ""
	var a Analyzer = AnalyzerFunc(func(word string) ([]Solution, error) {
		called = word
		return nil, nil
	})

	sols, err := a.Analyze("ev")
	require.NoError(t, err)
	assert.Empty(t, sols)
	assert.Equal(t, "ev", called)
}
