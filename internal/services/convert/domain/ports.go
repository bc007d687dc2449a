// Package domain holds the converter's types and the ports its service depends on
package domain

import (
	"context"

	"reports/internal/core/table"
)

// ConverterPort is the public port exposed by the module
type ConverterPort interface {
	Convert(ctx context.Context, input, output string) (Stats, error)
}

// Source yields one record per non-blank input line; io.EOF when done
type Source interface {
	Next() (table.Record, error)
	Close() error
	Stats() SourceStats
}

// SourceFactory opens a Source for a path
type SourceFactory interface {
	Open(path string) (Source, error)
}

// Sink writes a finished table to a path
type Sink interface {
	Write(path string, t *table.Table) (SinkResult, error)
}
