package llm

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// ThinkSplitter separates <think>...</think> segments of streamed text into
// reasoning chunks. Tags may be split across Feed calls.
type ThinkSplitter struct {
	inThink bool
	pending string
}

// Feed consumes a text delta and returns the text and reasoning chunks it completes.
func (s *ThinkSplitter) Feed(delta string) []StreamChunk {
	s.pending += delta
	var out []StreamChunk

	for s.pending != "" {
		tag := thinkOpen
		kind := ChunkText
		if s.inThink {
			tag = thinkClose
			kind = ChunkReasoning
		}

		idx := strings.Index(s.pending, tag)
		if idx >= 0 {
			out = appendChunk(out, kind, s.pending[:idx])
			s.pending = s.pending[idx+len(tag):]
			s.inThink = !s.inThink
			continue
		}

		// Keep a possible partial tag at the tail for the next delta.
		keep := partialSuffix(s.pending, tag)
		out = appendChunk(out, kind, s.pending[:len(s.pending)-keep])
		s.pending = s.pending[len(s.pending)-keep:]
		break
	}
	return out
}

// Flush returns whatever is still buffered.
func (s *ThinkSplitter) Flush() []StreamChunk {
	kind := ChunkText
	if s.inThink {
		kind = ChunkReasoning
	}
	out := appendChunk(nil, kind, s.pending)
	s.pending = ""
	return out
}

func appendChunk(out []StreamChunk, kind ChunkType, text string) []StreamChunk {
	if text == "" {
		return out
	}
	return append(out, StreamChunk{Type: kind, Text: text})
}

func partialSuffix(s, tag string) int {
	max := len(tag) - 1
	if max > len(s) {
		max = len(s)
	}
	for n := max; n > 0; n-- {
		if strings.HasSuffix(s, tag[:n]) {
			return n
		}
	}
	return 0
}

// StripThink removes reasoning segments from a complete response.
func StripThink(text string) string {
	var s ThinkSplitter
	var b strings.Builder
	for _, c := range append(s.Feed(text), s.Flush()...) {
		if c.Type == ChunkText {
			b.WriteString(c.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
