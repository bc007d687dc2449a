package jsonl

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"reports/internal/adapters/codec"
	"reports/internal/core/table"
	perr "reports/internal/platform/errors"
	"reports/internal/platform/logger"

	"github.com/valyala/fastjson"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// DefaultMaxLineBytes caps a single line
	DefaultMaxLineBytes = 32 * 1024 * 1024
	initialBufBytes     = 512 * 1024
	sampleRawMax        = 2048 // max bytes of raw JSON to log for the sample
)

// Options tunes the reader
type Options struct {
	MaxLineBytes int
}

// Stats describes what a Reader has consumed so far
type Stats struct {
	Lines   int   // physical lines, blank ones included
	Records int   // lines that produced a record
	Bytes   int64 // decompressed, decoded bytes pulled by the scanner; exact at EOF
	Codec   codec.Kind
}

var parsers fastjson.ParserPool

// Reader yields one table.Record per non-blank input line
type Reader struct {
	f     io.Closer
	dec   io.ReadCloser
	sc    *bufio.Scanner
	cr    *countingReader
	p     *fastjson.Parser
	err   error
	stats Stats
	limit int

	sampled bool
}

// Open opens path and returns a Reader over it
func Open(path string, opt Options) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "input %s not found", path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open input %s", path)
	}
	rd, err := NewReader(f, opt)
	if err != nil {
		return nil, err
	}
	return rd, nil
}

// NewReader builds a Reader over rc. rc is closed by Reader.Close, or here on error
func NewReader(rc io.ReadCloser, opt Options) (*Reader, error) {
	limit := opt.MaxLineBytes
	if limit <= 0 {
		limit = DefaultMaxLineBytes
	}

	br := bufio.NewReader(rc)
	head, err := br.Peek(codec.MagicLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		_ = rc.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "read input")
	}
	kind := codec.Sniff(head)
	dec, err := codec.NewReader(kind, br)
	if err != nil {
		_ = rc.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open %s stream", kind)
	}

	// UTF-8 passes through; a BOM switches to the matching decoding and is dropped
	text := transform.NewReader(dec, unicode.BOMOverride(transform.Nop))

	cr := &countingReader{r: text}
	sc := bufio.NewScanner(cr)
	sc.Buffer(make([]byte, min(initialBufBytes, limit)), limit)

	return &Reader{
		f:     rc,
		dec:   dec,
		sc:    sc,
		cr:    cr,
		p:     parsers.Get(),
		stats: Stats{Codec: kind},
		limit: limit,
	}, nil
}

// Next returns the next record; io.EOF when done
func (rd *Reader) Next() (table.Record, error) {
	if rd.err != nil {
		return nil, rd.err
	}
	for {
		if !rd.sc.Scan() {
			rd.err = rd.scanErr()
			return nil, rd.err
		}
		rd.stats.Lines++
		line := rd.sc.Bytes()

		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		rec, err := rd.parse(line)
		if err != nil {
			rd.err = perr.WithLine(err, rd.stats.Lines)
			return nil, rd.err
		}
		rd.stats.Records++

		if !rd.sampled {
			rd.sampled = true
			logger.Named("jsonl").Debug().
				Int("line_bytes", len(line)).
				Int("fields", len(rec)).
				Str("codec", rd.stats.Codec.String()).
				Str("sample_raw", truncateUTF8(line, sampleRawMax)).
				Msg("jsonl: sample raw line")
		}
		return rec, nil
	}
}

func (rd *Reader) scanErr() error {
	err := rd.sc.Err()
	switch {
	case err == nil:
		return io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		return perr.WithLine(
			perr.Wrapf(err, perr.ErrorCodeIO, "line %d exceeds the %d byte line limit", rd.stats.Lines+1, rd.limit),
			rd.stats.Lines+1,
		)
	default:
		return perr.WithLine(perr.Wrapf(err, perr.ErrorCodeIO, "read line %d", rd.stats.Lines+1), rd.stats.Lines+1)
	}
}

func (rd *Reader) parse(line []byte) (table.Record, error) {
	// the parser is lenient about escapes, control chars and number syntax
	if err := fastjson.ValidateBytes(line); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "line %d: invalid JSON", rd.stats.Lines)
	}
	v, err := rd.p.ParseBytes(line)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "line %d: invalid JSON", rd.stats.Lines)
	}
	obj, err := v.Object()
	if err != nil {
		return nil, perr.JSONErrf("line %d: expected a JSON object, got %s", rd.stats.Lines, v.Type())
	}
	rec := make(table.Record, 0, obj.Len())
	obj.Visit(func(k []byte, fv *fastjson.Value) {
		rec = append(rec, table.Field{Key: string(k), Value: Cell(fv)})
	})
	return rec, nil
}

// Cell renders a JSON value as CSV cell text: strings verbatim, numbers as written,
// booleans as true/false, null as empty, objects and arrays as compact JSON
func Cell(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeString:
		sb, _ := v.StringBytes()
		return string(sb)
	case fastjson.TypeNull:
		return ""
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	default:
		// numbers keep their source literal; containers marshal compactly
		return v.String()
	}
}

// Stats returns counters for what has been read so far
func (rd *Reader) Stats() Stats {
	st := rd.stats
	st.Bytes = rd.cr.n
	return st
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Close releases the decompressor, the parser and the underlying file
func (rd *Reader) Close() error {
	var first error
	if rd.p != nil {
		parsers.Put(rd.p)
		rd.p = nil
	}
	if rd.dec != nil {
		if err := rd.dec.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			first = err
		}
		rd.dec = nil
	}
	if rd.f != nil {
		if err := rd.f.Close(); err != nil && first == nil {
			first = err
		}
		rd.f = nil
	}
	return first
}

// truncateUTF8 returns a string made from b, truncated to at most max bytes,
// backing up to a UTF-8 boundary if needed, and appending an ellipsis if truncated
func truncateUTF8(b []byte, max int) string {
	if max <= 0 || len(b) <= max {
		return string(b)
	}
	i := max
	for i > 0 && (b[i]&0xC0) == 0x80 {
		i--
	}
	if i <= 0 {
		i = max
	}
	return string(b[:i]) + "..."
}
