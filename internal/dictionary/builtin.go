package dictionary

import (
	_ "embed"
)

//go:embed corpus.txt
var builtinCorpus string

// Builtin returns a dictionary trained on the small bundled chat corpus.
func Builtin(limit int) *Dictionary {
	d := New(limit)
	d.Learn(builtinCorpus)
	return d
}
