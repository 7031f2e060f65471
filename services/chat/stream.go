package chat

import (
	"encoding/json"
	"strings"
)

const doneSentinel = "[DONE]"

// chatCompletionChunk is the part of a streamed chat-completion payload the
// decoder cares about.
type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamDecoder reconstructs text fragments from an arbitrarily-chunked
// event stream of chat deltas. Logical units are lines of the form
// "data: <json>", separated by "\n" with an optional trailing "\r"; comment
// lines starting with ":" and blank lines are skipped; the literal payload
// "[DONE]" terminates the stream.
//
// The decoder is a two-state reducer: the trailing buffer of unconsumed
// bytes plus a terminal flag. A payload that fails to parse as JSON is
// re-buffered rather than discarded, so a payload split across two reads is
// retried intact once more bytes arrive. No byte is ever dropped and
// fragments are emitted strictly in arrival order.
type StreamDecoder struct {
	buf  string
	done bool
}

// Feed consumes the next chunk of bytes and returns the text fragments
// completed by it, in order. After the terminal sentinel has been seen,
// further input is ignored.
func (d *StreamDecoder) Feed(p []byte) []string {
	if d.done {
		return nil
	}

	d.buf += string(p)

	var fragments []string
	for {
		newlineIndex := strings.Index(d.buf, "\n")
		if newlineIndex == -1 {
			break
		}

		line := strings.TrimSuffix(d.buf[:newlineIndex], "\r")
		rest := d.buf[newlineIndex+1:]

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, "data: ") {
			d.buf = rest
			continue
		}

		payload := strings.TrimSpace(line[len("data: "):])
		if payload == doneSentinel {
			d.done = true
			d.buf = ""
			break
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// The payload may have been split across reads. Leave the
			// buffer as is, raw line included, and retry once more bytes
			// arrive.
			break
		}

		d.buf = rest
		if len(chunk.Choices) > 0 {
			if content := chunk.Choices[0].Delta.Content; content != "" {
				fragments = append(fragments, content)
			}
		}
	}

	return fragments
}

// Done reports whether the terminal sentinel has been consumed. End of
// input before the sentinel is not an error; the caller already has every
// fragment emitted so far.
func (d *StreamDecoder) Done() bool {
	return d.done
}
