package domain

import "time"

// Options configures one conversion run. Field names in validation messages come
// from the flag tag
type Options struct {
	Input        string `flag:"in" validate:"required"`
	Output       string `flag:"out" validate:"required"`
	Order        string `flag:"order" validate:"oneof=first-seen sorted"`
	Delimiter    rune   `flag:"delimiter" validate:"csvdelim"`
	MaxLineBytes int    `flag:"max-line" validate:"min=1024"`
}

// SourceStats is what the input side reports after reading
type SourceStats struct {
	Lines   int // physical lines, blank ones included
	Records int
	Bytes   int64
	Codec   string
}

// SinkResult is what the output side reports after writing
type SinkResult struct {
	Bytes int64
	Codec string
}

// Stats summarizes a finished conversion
type Stats struct {
	Lines       int // non-blank input lines
	Rows        int
	Columns     int
	BytesIn     int64
	BytesOut    int64
	InputCodec  string
	OutputCodec string
	Duration    time.Duration
}
