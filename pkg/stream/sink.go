package stream

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dkoosis/morphd/pkg/morph"
	"github.com/dkoosis/morphd/pkg/render"
)

// Sink writes one encoded record per line and flushes after each record.
type Sink struct {
	w   *bufio.Writer
	enc render.Encoder
}

// NewSink creates a Sink writing enc's records to w.
func NewSink(w io.Writer, enc render.Encoder) *Sink {
	return &Sink{w: bufio.NewWriter(w), enc: enc}
}

// Emit encodes r and writes it as a single line. If r cannot be encoded, a
// failure record for the same word is written in its place. Emit returns the
// record that was written. Only write and flush errors are returned.
func (s *Sink) Emit(r morph.AnalysisResult) (morph.AnalysisResult, error) {
	r, data, err := s.encode(r)
	if err != nil {
		return r, err
	}
	return r, s.write(data)
}

// encode returns the record that will be written along with its bytes.
func (s *Sink) encode(r morph.AnalysisResult) (morph.AnalysisResult, []byte, error) {
	data, err := s.enc.Encode(r)
	if err == nil {
		return r, data, nil
	}
	r = morph.Failure(r.Word, err)
	data, err = s.enc.Encode(r)
	if err != nil {
		return r, nil, fmt.Errorf("encoding failure record for %q: %w", r.Word, err)
	}
	return r, data, nil
}

func (s *Sink) write(data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
