// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wire

import (
	"bytes"
	"encoding/json"
)

// =============================================================================
// FRAME DECODER
// =============================================================================

// MaxLineSize bounds a single record line. A line exceeding it is discarded
// up to its terminator and counted as dropped, then decoding resumes on the
// next line.
const MaxLineSize = 64 * 1024

// Decoder reassembles newline-delimited JSON records from arbitrary byte
// fragments. The sequence of records it yields depends only on the
// concatenated byte stream, never on where the fragment boundaries fall.
//
// A Decoder is not safe for concurrent use; each stream owns one.
type Decoder struct {
	buf bytes.Buffer

	// overflow counts bytes of the current line already discarded once it
	// exceeded MaxLineSize, so the size verdict for a line is a function of
	// its total length alone, never of fragment boundaries.
	overflow int
	dropped  int
}

// Push appends a fragment and returns every record completed by it, in
// stream order. Lines longer than MaxLineSize, malformed lines, and lines
// with an unknown record type are skipped and counted; blank lines are
// skipped silently.
func (d *Decoder) Push(fragment []byte) []Record {
	d.buf.Write(fragment)

	var records []Record
	for {
		data := d.buf.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			if d.overflow+d.buf.Len() > MaxLineSize {
				// Oversized unterminated line: discard the buffered prefix
				// so memory stays bounded, but remember its length; the
				// drop is charged when the terminator finally arrives.
				d.overflow += d.buf.Len()
				d.buf.Reset()
			}
			return records
		}

		lineSize := d.overflow + i
		d.overflow = 0

		line := make([]byte, i)
		copy(line, data[:i])
		d.buf.Next(i + 1)

		if lineSize > MaxLineSize {
			d.dropped++
			continue
		}
		if rec, ok := decodeLine(line); ok {
			records = append(records, rec)
		} else if len(bytes.TrimSpace(line)) > 0 {
			d.dropped++
		}
	}
}

// Finish reports the tail: bytes received after the last terminator,
// including any discarded oversized prefix. The tail is never decoded as a
// record; a non-zero return means the stream ended mid-line.
func (d *Decoder) Finish() int {
	n := d.overflow + d.buf.Len()
	d.overflow = 0
	d.buf.Reset()
	if n > 0 {
		d.dropped++
	}
	return n
}

// Dropped returns the count of discarded lines so far.
func (d *Decoder) Dropped() int {
	return d.dropped
}

func decodeLine(line []byte) (Record, bool) {
	line = bytes.TrimRight(line, "\r")
	if len(bytes.TrimSpace(line)) == 0 {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Record{}, false
	}
	if !validTypes[rec.Type] {
		return Record{}, false
	}
	return rec, true
}
