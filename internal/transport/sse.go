package transport

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxSSELineSize is the maximum size of a single SSE line (1 MB). The default
// bufio.Scanner limit is 64 KiB, which is too small for large events such as
// long completions or tool-input fragments. A longer line surfaces a wrapped
// bufio.ErrTooLong through Next().
const maxSSELineSize = 1 * 1024 * 1024

// maxResponseBodySize caps response body reads (10 MB) so a rogue endpoint
// cannot trigger unbounded memory allocation.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// SSEScanner reads server-sent events from an io.Reader. It handles
// multi-line data fields, skips comments and empty lines, and treats the
// [DONE] sentinel as end of stream.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner creates an SSEScanner reading from reader. Individual lines
// up to maxSSELineSize are supported.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEScanner{scanner: scanner}
}

// Next returns the next SSE data payload. Multiple consecutive "data:" lines
// are joined with newlines into one payload. Returns io.EOF at end of stream
// or on the [DONE] sentinel.
func (s *SSEScanner) Next() (string, error) {
	var dataLines []string

	for s.scanner.Scan() {
		line := s.scanner.Text()

		// Empty line terminates an event; flush accumulated data lines.
		if line == "" {
			if len(dataLines) > 0 {
				return strings.Join(dataLines, "\n"), nil
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return "", io.EOF
			}
			dataLines = append(dataLines, data)
			continue
		}

		// Other SSE fields (event:, id:, retry:) carry no payload for us;
		// the JSON body's own type field discriminates events.
	}

	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("SSE scanner error: %w", err)
	}

	if len(dataLines) > 0 {
		return strings.Join(dataLines, "\n"), nil
	}

	return "", io.EOF
}
