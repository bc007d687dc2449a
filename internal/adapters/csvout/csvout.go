// Package csvout writes a table to a CSV file: one header row, one row per record,
// no index column. The file is replaced atomically so a failed run leaves no output
package csvout

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"reports/internal/adapters/codec"
	perr "reports/internal/platform/errors"
)

// Tabular is what the writer needs from a table
type Tabular interface {
	Header() []string
	Each(fn func(row []string) error) error
}

// Options tunes the CSV output
type Options struct {
	Comma rune // field delimiter; 0 means ','
}

// Result describes a finished write
type Result struct {
	Bytes int64 // bytes on disk, after compression
	Codec codec.Kind
}

// seams
var (
	rename     = os.Rename
	createTemp = os.CreateTemp
)

// Write renders t to path. Compression follows the path extension (.gz, .zst).
// A table with no columns yields an empty file. Output goes to a temp file in the
// same directory which is renamed over path only after a complete write
func Write(path string, t Tabular, opt Options) (res Result, err error) {
	res.Codec = codec.FromPath(path)

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := createTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return res, perr.Wrapf(err, perr.ErrorCodeIO, "create output in %s", dir)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	cw := &countingWriter{w: tmp}
	if err := encode(cw, t, res.Codec, opt); err != nil {
		return res, err
	}
	res.Bytes = cw.n

	if err := tmp.Chmod(0o644); err != nil {
		return res, perr.Wrapf(err, perr.ErrorCodeIO, "chmod %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		return res, perr.Wrapf(err, perr.ErrorCodeIO, "sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return res, perr.Wrapf(err, perr.ErrorCodeIO, "close %s", tmp.Name())
	}
	if err := rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		committed = true // temp already cleaned up
		return res, perr.Wrapf(err, perr.ErrorCodeIO, "replace %s", path)
	}
	committed = true
	return res, nil
}

// encode streams header and rows through the compressor into w
func encode(w io.Writer, t Tabular, kind codec.Kind, opt Options) error {
	bw := bufio.NewWriter(w)
	comp, err := codec.NewWriter(kind, bw)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "open %s writer", kind)
	}

	header := t.Header()
	if len(header) > 0 {
		out := csv.NewWriter(comp)
		if opt.Comma != 0 {
			out.Comma = opt.Comma
		}
		if err := writeRow(out, comp, header); err != nil {
			return err
		}
		if err := t.Each(func(row []string) error { return writeRow(out, comp, row) }); err != nil {
			return err
		}
		out.Flush()
		if err := out.Error(); err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "write csv")
		}
	}

	if err := comp.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "finish %s stream", kind)
	}
	return perr.WrapIf(bw.Flush(), perr.ErrorCodeIO, "flush output")
}

// writeRow writes one record. A lone empty field is written as "" so the line
// is not blank; csv readers skip blank lines and the row would be lost
func writeRow(out *csv.Writer, raw io.Writer, row []string) error {
	if len(row) == 1 && row[0] == "" {
		out.Flush()
		if err := out.Error(); err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "write csv")
		}
		_, err := io.WriteString(raw, "\"\"\n")
		return perr.WrapIf(err, perr.ErrorCodeIO, "write csv")
	}
	return perr.WrapIf(out.Write(row), perr.ErrorCodeIO, "write csv")
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
