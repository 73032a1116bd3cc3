/*
Package adapter turns the output of a morphological analyzer into the canonical
[morph.AnalysisResult] record.

The [Adapter] is the only component that talks to the engine. It is built once
around a long-lived [morph.Analyzer] and then called once per word. Every call
returns a well-formed result: analyzer errors, panics raised while walking the
engine's solutions, and inputs the engine should never see (invalid UTF-8,
oversized words) are all converted into the result's Error field so that a
single bad word never stops the stream.

# Usage

	a := adapter.New(engine, adapter.WithMaxWordLength(1024))
	res := a.Analyze("kitaplar")
	if res.Failed() {
	        log.Printf("%s: %s", res.Word, res.ErrorMessage())
	}
*/
package adapter
