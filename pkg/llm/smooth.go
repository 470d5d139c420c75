package llm

import (
	"context"
	"regexp"
	"time"
)

var wordChunk = regexp.MustCompile(`\S+\s+`)

// WordSmoother re-chunks streamed text into whole words and paces their delivery.
// It is not safe for concurrent use.
type WordSmoother struct {
	delay time.Duration
	emit  func(string) error
	buf   string
}

func NewWordSmoother(delay time.Duration, emit func(string) error) *WordSmoother {
	return &WordSmoother{delay: delay, emit: emit}
}

// Push buffers text and emits every complete word (with its trailing whitespace).
func (s *WordSmoother) Push(ctx context.Context, text string) error {
	s.buf += text
	for {
		loc := wordChunk.FindStringIndex(s.buf)
		if loc == nil {
			return nil
		}
		chunk := s.buf[:loc[1]]
		s.buf = s.buf[loc[1]:]
		if err := s.emit(chunk); err != nil {
			return err
		}
		if err := s.wait(ctx); err != nil {
			return err
		}
	}
}

// Flush emits whatever is still buffered.
func (s *WordSmoother) Flush() error {
	if s.buf == "" {
		return nil
	}
	rest := s.buf
	s.buf = ""
	return s.emit(rest)
}

func (s *WordSmoother) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
