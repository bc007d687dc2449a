package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"reports/internal/core/table"
	perr "reports/internal/platform/errors"
	"reports/internal/services/convert/domain"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	recs   []table.Record
	failAt int // 1-based record index that fails; 0 = never
	i      int
	closed bool
	onNext func()
}

func (f *fakeSource) Next() (table.Record, error) {
	if f.onNext != nil {
		f.onNext()
	}
	if f.failAt > 0 && f.i+1 == f.failAt {
		return nil, perr.WithLine(perr.JSONErrf("line %d: invalid JSON", f.failAt), f.failAt)
	}
	if f.i >= len(f.recs) {
		return nil, io.EOF
	}
	r := f.recs[f.i]
	f.i++
	return r, nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSource) Stats() domain.SourceStats {
	return domain.SourceStats{Lines: f.i, Records: f.i, Bytes: int64(10 * f.i), Codec: "none"}
}

type fakeFactory struct {
	src *fakeSource
	err error
}

func (f fakeFactory) Open(string) (domain.Source, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.src, nil
}

type fakeSink struct {
	header []string
	rows   [][]string
	calls  int
	err    error
}

func (f *fakeSink) Write(_ string, t *table.Table) (domain.SinkResult, error) {
	f.calls++
	if f.err != nil {
		return domain.SinkResult{}, f.err
	}
	f.header = t.Header()
	_ = t.Each(func(row []string) error {
		f.rows = append(f.rows, append([]string(nil), row...))
		return nil
	})
	return domain.SinkResult{Bytes: 42, Codec: "none"}, nil
}

func records() []table.Record {
	return []table.Record{
		{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
		{{Key: "a", Value: "3"}},
	}
}

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		return t0.Add(time.Duration(calls-1) * time.Second)
	}
}

func TestConvert_Example(t *testing.T) {
	src := &fakeSource{recs: records()}
	sink := &fakeSink{}
	svc := New(fakeFactory{src: src}, sink, Config{Order: table.FirstSeen})
	svc.now = fixedClock()

	st, err := svc.Convert(context.Background(), "in.jsonl", "out.csv")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, sink.header)
	require.Equal(t, [][]string{{"1", "2"}, {"3", ""}}, sink.rows)
	require.Equal(t, domain.Stats{
		Lines: 2, Rows: 2, Columns: 2,
		BytesIn: 20, BytesOut: 42,
		InputCodec: "none", OutputCodec: "none",
		Duration: time.Second,
	}, st)
	require.True(t, src.closed)
}

func TestConvert_SortedOrder(t *testing.T) {
	src := &fakeSource{recs: []table.Record{{{Key: "z", Value: "1"}, {Key: "m", Value: "2"}}}}
	sink := &fakeSink{}
	_, err := New(fakeFactory{src: src}, sink, Config{Order: table.Sorted}).
		Convert(context.Background(), "in", "out")
	require.NoError(t, err)
	require.Equal(t, []string{"m", "z"}, sink.header)
	require.Equal(t, [][]string{{"2", "1"}}, sink.rows)
}

func TestConvert_ParseFailureWritesNothing(t *testing.T) {
	src := &fakeSource{recs: records(), failAt: 2}
	sink := &fakeSink{}
	_, err := New(fakeFactory{src: src}, sink, Config{}).Convert(context.Background(), "in", "out")
	require.True(t, perr.IsCode(err, perr.ErrorCodeJSON))
	e, _ := perr.As(err)
	require.Equal(t, "read", e.Op())
	require.Equal(t, "line:2", e.Field())
	require.Zero(t, sink.calls)
	require.True(t, src.closed)
}

func TestConvert_OpenFailure(t *testing.T) {
	sink := &fakeSink{}
	_, err := New(fakeFactory{err: perr.Newf(perr.ErrorCodeNotFound, "input missing")}, sink, Config{}).
		Convert(context.Background(), "in", "out")
	require.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
	require.Zero(t, sink.calls)
}

func TestConvert_SinkFailure(t *testing.T) {
	sink := &fakeSink{err: perr.Newf(perr.ErrorCodeIO, "disk full")}
	_, err := New(fakeFactory{src: &fakeSource{recs: records()}}, sink, Config{}).
		Convert(context.Background(), "in", "out")
	require.True(t, perr.IsCode(err, perr.ErrorCodeIO))
	e, _ := perr.As(err)
	require.Equal(t, "write", e.Op())
}

func TestConvert_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{recs: records()}
	src.onNext = cancel // cancel after the first read
	sink := &fakeSink{}

	_, err := New(fakeFactory{src: src}, sink, Config{}).Convert(ctx, "in", "out")
	require.True(t, perr.IsCode(err, perr.ErrorCodeCanceled))
	require.True(t, errors.Is(err, context.Canceled))
	require.Zero(t, sink.calls)
}

func TestConvert_EmptyInput(t *testing.T) {
	sink := &fakeSink{}
	st, err := New(fakeFactory{src: &fakeSource{}}, sink, Config{}).Convert(context.Background(), "in", "out")
	require.NoError(t, err)
	require.Equal(t, 1, sink.calls)
	require.Empty(t, sink.header)
	require.Zero(t, st.Rows)
	require.Zero(t, st.Columns)
}
