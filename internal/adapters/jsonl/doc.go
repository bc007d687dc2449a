// Package jsonl reads newline-delimited JSON log files into table records
//
// Design choices:
// - Stream with bufio.Scanner capped at 32MB per line by default.
// - gzip and zstd input is detected by magic bytes, not by file name.
// - A byte-order mark is honored (UTF-8 BOM dropped, UTF-16 transcoded).
// - fastjson keeps object fields in source order, which drives first-seen column order.
// - Blank lines are skipped; any other line that is not a JSON object is an error.
package jsonl
