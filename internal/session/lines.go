// File: lines.go
// Title: Line Writer
// Description: io.Writer that hands each complete output line to a
//              callback, used to stream PRINT output as it happens.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial line writer

package session

import (
	"bytes"
)

// LineWriter buffers writes and calls emit once per newline-terminated line
type LineWriter struct {
	emit func(line string) error
	buf  bytes.Buffer
}

// NewLineWriter returns a writer feeding emit
func NewLineWriter(emit func(line string) error) *LineWriter {
	return &LineWriter{emit: emit}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		line := string(w.buf.Next(i + 1))
		if err := w.emit(line[:i]); err != nil {
			return len(p), err
		}
	}
}

// Flush emits a trailing unterminated line, if any
func (w *LineWriter) Flush() error {
	if w.buf.Len() == 0 {
		return nil
	}
	line := w.buf.String()
	w.buf.Reset()
	return w.emit(line)
}
