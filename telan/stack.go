// Copyright © 2018 The ELPS authors

package telan

import (
	"bytes"
	"fmt"
	"io"

	"github.com/luthersystems/telan/parser/token"
)

// CallStack is the stack of operator calls being evaluated.
type CallStack struct {
	Frames []CallFrame
	// MaxHeight limits the number of frames.  A value of zero or less means
	// there is no limit and deep recursion is bounded only by the host.
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Name   string
	Source *token.Location
	User   bool // the operator was defined with setf
}

func (f *CallFrame) String() string {
	name := f.Name
	if f.User {
		name += " [user]"
	}
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, name)
	}
	return name
}

// Push adds a frame to the top of the stack.  Push returns false without
// modifying the stack if the stack is already at its maximum height.
func (s *CallStack) Push(frame CallFrame) bool {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return false
	}
	s.Frames = append(s.Frames, frame)
	return true
}

// Pop removes the top frame of the stack.
func (s *CallStack) Pop() *CallFrame {
	if len(s.Frames) == 0 {
		return nil
	}
	top := s.Frames[len(s.Frames)-1]
	s.Frames = s.Frames[:len(s.Frames)-1]
	return &top
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Snapshot returns a copy of the stack frames.
func (s *CallStack) Snapshot() []CallFrame {
	if len(s.Frames) == 0 {
		return nil
	}
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return frames
}

// WriteTo writes a stack trace to w with the entry point last.
func (s *CallStack) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, "  height %d: %s\n", i, &s.Frames[i])
	}
	return buf.WriteTo(w)
}
