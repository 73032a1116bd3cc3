// Package linesource yields one word per non-blank input line.
package linesource

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Source produces trimmed words. Next returns io.EOF once input is exhausted;
// blank and whitespace-only lines are never returned.
type Source interface {
	Next() (string, error)
}

// Counts reports how many raw lines a source consumed and how many of them
// were skipped as blank.
type Counts struct {
	Lines int
	Blank int
}

// Scanner reads words from an io.Reader. Unlike bufio.Scanner it places no
// ceiling on line length; oversized words are left for the caller to judge.
type Scanner struct {
	r      *bufio.Reader
	counts Counts
	err    error
}

// NewScanner creates a Scanner over r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 64*1024)
	}
	return &Scanner{r: br}
}

// Next implements Source.
func (s *Scanner) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for {
		line, err := s.r.ReadString('\n')
		if line != "" {
			s.counts.Lines++
			if word := strings.TrimSpace(line); word != "" {
				if err != nil && !errors.Is(err, io.EOF) {
					// Deliver the partial line now; report err on the next call.
					s.err = err
				}
				return word, nil
			}
			s.counts.Blank++
		}
		if err != nil {
			s.err = err
			return "", err
		}
	}
}

// Counts returns the line counters so far.
func (s *Scanner) Counts() Counts {
	return s.counts
}
