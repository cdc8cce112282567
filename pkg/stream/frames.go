package stream

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// maxFrameSize bounds the data carried by a single frame
const maxFrameSize = 1024 * 1024

// ErrFrameTooLarge is reported to the discard hook for a frame whose data
// exceeds 1 MiB. The frame is skipped and the stream continues.
var ErrFrameTooLarge = errors.New("frame exceeds 1 MiB")

// frameReader splits a text/event-stream body into frame payloads. Each
// frame's data lines are joined with "\n"; comments and the event, id and
// retry fields are ignored.
type frameReader struct {
	r   *bufio.Reader
	max int
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: bufio.NewReaderSize(r, 64*1024), max: maxFrameSize}
}

// Next returns the payload of the next frame that carries data. It returns
// io.EOF once the body ends; a trailing frame without its blank line is
// still returned. An oversized frame is consumed up to its blank line and
// reported as ErrFrameTooLarge.
func (f *frameReader) Next() (string, error) {
	var data []string
	size := 0
	hasData, tooLarge := false, false
	for {
		line, tooLong, err := f.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if tooLong {
			tooLarge = true
			continue
		}
		if line == "" {
			if tooLarge {
				return "", ErrFrameTooLarge
			}
			if hasData {
				return strings.Join(data, "\n"), nil
			}
			continue
		}
		if tooLarge || strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		if field == "data" {
			size += len(value) + 1
			if size > f.max {
				tooLarge, data = true, nil
				continue
			}
			data = append(data, value)
			hasData = true
		}
	}
	if tooLarge {
		return "", ErrFrameTooLarge
	}
	if hasData {
		return strings.Join(data, "\n"), nil
	}
	return "", io.EOF
}

// readLine returns the next line without its line ending. A line longer than
// f.max is still consumed, but its content is dropped and tooLong is set.
func (f *frameReader) readLine() (line string, tooLong bool, err error) {
	var buf []byte
	read := false
	for {
		chunk, err := f.r.ReadSlice('\n')
		read = read || len(chunk) > 0
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > f.max {
				tooLong, buf = true, nil
			}
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && read:
			// last line without a terminator
		case err != nil:
			return "", false, err
		}
		line = strings.TrimSuffix(string(buf), "\n")
		return strings.TrimSuffix(line, "\r"), tooLong, nil
	}
}
