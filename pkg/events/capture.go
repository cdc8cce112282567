package events

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ReadCapture reads a run capture: one encoded event per line, as written
// by a recording client. Blank lines are skipped.
func ReadCapture(r io.Reader) ([]RunEvent, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []RunEvent
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		ev, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("capture line %d: %w", line, err)
		}
		out = append(out, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	return out, nil
}

// WriteCapture writes events in the format ReadCapture reads
func WriteCapture(w io.Writer, evs []RunEvent) error {
	for _, ev := range evs {
		data, err := Encode(ev)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write capture: %w", err)
		}
	}
	return nil
}
