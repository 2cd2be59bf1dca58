package domain

import "time"

// Question is a natural-language query against the indexed corpus.
type Question struct {
	// Text is the question itself. Required.
	Text string

	// From and To optionally bound the transcript upload date. When both
	// are zero the retrieval pipeline applies its configured lookback
	// window instead.
	From time.Time
	To   time.Time

	// Speaker optionally restricts retrieval to one speaker label.
	Speaker string

	// TopK overrides the configured candidate count when positive.
	TopK int
}

// Source is a citation backing an answer: the chunk text together with
// where it came from.
type Source struct {
	TranscriptID int64
	Filename     string
	Text         string
	StartTime    float64
	EndTime      float64
	Speaker      string
	Score        float64
}

// Answer is the result of a question: the generated answer plus the ordered
// sources it was grounded on. Sources appear in the same order the chunks
// were presented to the generation provider (descending similarity).
// An empty Sources slice means no relevant material was found; the answer
// text says so explicitly rather than fabricating a citation.
type Answer struct {
	Question string
	Answer   string
	Sources  []Source
}

// HistoryEntry is one recorded question/answer pair.
type HistoryEntry struct {
	ID       int64
	Question string
	Answer   string
	AskedAt  time.Time
}
