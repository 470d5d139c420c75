package datastream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"
)

var ErrClosed = errors.New("data stream closed")

// DataSink receives side-channel events. Tool and document handlers write
// through it without knowing about the transport.
type DataSink interface {
	WriteData(event DataEvent) error
}

// Stream multiplexes model output and side-channel events onto one response.
// Producers enqueue frames; Pump is the only goroutine touching the writer,
// so frames never interleave and keep enqueue order.
type Stream struct {
	frames chan []byte
	done   chan struct{}
	cancel context.CancelFunc

	closeOnce sync.Once
	doneOnce  sync.Once

	mu  sync.Mutex
	err error
}

var _ DataSink = (*Stream)(nil)

// New returns a stream whose cancel func is invoked when the client goes away.
func New(cancel context.CancelFunc, buffer int) *Stream {
	if cancel == nil {
		cancel = func() {}
	}
	return &Stream{
		frames: make(chan []byte, buffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

func (s *Stream) send(frame []byte, err error) error {
	if err != nil {
		return err
	}
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.frames <- frame:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

func (s *Stream) WriteText(text string) error {
	return s.send(TextFrame(text))
}

func (s *Stream) WriteReasoning(text string) error {
	return s.send(ReasoningFrame(text))
}

func (s *Stream) WriteError(message string) error {
	return s.send(ErrorFrame(message))
}

func (s *Stream) WriteStartStep(messageId string) error {
	return s.send(StartStepFrame(messageId))
}

func (s *Stream) WriteData(event DataEvent) error {
	return s.send(DataFrame(event))
}

func (s *Stream) WriteToolCall(id, name string, args json.RawMessage) error {
	return s.send(ToolCallFrame(id, name, args))
}

func (s *Stream) WriteToolResult(id string, result json.RawMessage) error {
	return s.send(ToolResultFrame(id, result))
}

func (s *Stream) WriteFinishStep(reason string, usage llm.Usage, isContinued bool) error {
	return s.send(FinishStepFrame(reason, usage, isContinued))
}

func (s *Stream) WriteFinishMessage(reason string, usage llm.Usage) error {
	return s.send(FinishMessageFrame(reason, usage))
}

// Close marks the end of production. Only the producer may call it, after its last write.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.frames)
	})
}

// Pump writes frames until Close, flushing after each one. A write failure
// means the client is gone: generation is cancelled and later writes fail
// with ErrClosed.
func (s *Stream) Pump(w *bufio.Writer) error {
	for frame := range s.frames {
		if _, err := w.Write(frame); err != nil {
			s.abort(err)
			return err
		}
		if err := w.Flush(); err != nil {
			s.abort(err)
			return err
		}
	}
	return nil
}

func (s *Stream) abort(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.doneOnce.Do(func() { close(s.done) })
	s.cancel()
}

// Err returns the write error that aborted the stream, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
