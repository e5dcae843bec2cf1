package model

// RawLine is one unclassified line read from a tailed log file.
type RawLine struct {
	Text   string // original line text
	Source string // originating file path
}
