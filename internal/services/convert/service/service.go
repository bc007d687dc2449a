// Package service provides the conversion service implementation
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"reports/internal/core/table"
	perr "reports/internal/platform/errors"
	"reports/internal/platform/logger"
	"reports/internal/services/convert/domain"
)

// Config holds configuration options for the conversion service
type Config struct {
	Order table.Order
}

// Service reads a whole JSON-lines file into a table and writes it out as CSV
type Service struct {
	Open domain.SourceFactory
	Sink domain.Sink
	Cfg  Config

	now func() time.Time
}

// New constructs the service
func New(open domain.SourceFactory, sink domain.Sink, cfg Config) *Service {
	return &Service{Open: open, Sink: sink, Cfg: cfg, now: time.Now}
}

// Convert loads every record of input into memory and writes the table to output.
// Either the whole conversion succeeds and output is replaced, or nothing is written
func (s *Service) Convert(ctx context.Context, input, output string) (domain.Stats, error) {
	var st domain.Stats
	start := s.now()
	log := logger.C(ctx).With().Str("input", input).Str("output", output).Logger()

	src, err := s.Open.Open(input)
	if err != nil {
		return st, perr.WithOp(err, "read")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("convert: close input")
		}
	}()

	tb := table.New(s.Cfg.Order)
	for {
		if err := ctx.Err(); err != nil {
			return st, perr.Wrap(err, perr.ErrorCodeCanceled, "conversion canceled")
		}
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, perr.WithOp(err, "read")
		}
		tb.Append(rec)
	}

	in := src.Stats()
	st.Lines = in.Records
	st.Rows = tb.Len()
	st.Columns = tb.Width()
	st.BytesIn = in.Bytes
	st.InputCodec = in.Codec

	log.Debug().
		Int("lines", in.Lines).
		Int("rows", st.Rows).
		Int("columns", st.Columns).
		Str("order", s.Cfg.Order.String()).
		Msg("convert: table built")

	if err := ctx.Err(); err != nil {
		return st, perr.Wrap(err, perr.ErrorCodeCanceled, "conversion canceled")
	}

	res, err := s.Sink.Write(output, tb)
	if err != nil {
		return st, perr.WithOp(err, "write")
	}
	st.BytesOut = res.Bytes
	st.OutputCodec = res.Codec
	st.Duration = s.now().Sub(start)

	log.Info().
		Int("rows", st.Rows).
		Int("columns", st.Columns).
		Int64("bytes_in", st.BytesIn).
		Int64("bytes_out", st.BytesOut).
		Str("input_codec", st.InputCodec).
		Str("output_codec", st.OutputCodec).
		Dur("took", st.Duration).
		Msg("convert: done")

	return st, nil
}
