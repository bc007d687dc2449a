package ingest

import (
	"reports/internal/adapters/jsonl"
	"reports/internal/core/table"
	"reports/internal/services/convert/domain"
)

// sourceFactory adapts jsonl.Open to the domain.SourceFactory
type sourceFactory struct {
	opt jsonl.Options
}

// NewSourceFactory returns a factory over the JSON-lines reader
func NewSourceFactory(maxLineBytes int) domain.SourceFactory {
	return sourceFactory{opt: jsonl.Options{MaxLineBytes: maxLineBytes}}
}

func (f sourceFactory) Open(path string) (domain.Source, error) {
	r, err := jsonl.Open(path, f.opt)
	if err != nil {
		return nil, err
	}
	return &source{r: r}, nil
}

type source struct {
	r *jsonl.Reader
}

func (s *source) Next() (table.Record, error) { return s.r.Next() }

func (s *source) Close() error { return s.r.Close() }

func (s *source) Stats() domain.SourceStats {
	st := s.r.Stats()
	return domain.SourceStats{
		Lines:   st.Lines,
		Records: st.Records,
		Bytes:   st.Bytes,
		Codec:   st.Codec.String(),
	}
}
