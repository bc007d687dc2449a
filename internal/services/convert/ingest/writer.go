// Package ingest adapts the JSON-lines reader and the CSV writer to the converter's ports
package ingest

import (
	"reports/internal/adapters/csvout"
	"reports/internal/core/table"
	"reports/internal/services/convert/domain"
)

// sink adapts csvout.Write to the domain.Sink
type sink struct {
	opt csvout.Options
}

// NewSink returns a CSV sink using comma as the field delimiter
func NewSink(comma rune) domain.Sink {
	return sink{opt: csvout.Options{Comma: comma}}
}

func (s sink) Write(path string, t *table.Table) (domain.SinkResult, error) {
	res, err := csvout.Write(path, t, s.opt)
	if err != nil {
		return domain.SinkResult{}, err
	}
	return domain.SinkResult{Bytes: res.Bytes, Codec: res.Codec.String()}, nil
}
