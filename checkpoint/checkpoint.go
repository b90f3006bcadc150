// Package checkpoint decorates errors with the location they passed through,
// so that a failing sector write deep inside a volume operation still tells
// where it was issued from.
// Every error attached to a checkpoint stays reachable by errors.Is and errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err by a checkpoint carrying the caller position.
// It returns nil if err is nil.
func From(err error) error {
	if err == nil {
		return nil
	}

	// io.EOF must be passed through untouched.
	// https://github.com/golang/go/issues/39155
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	return newCheckpoint(err, nil, "")
}

// Wrap creates a checkpoint for prev which is additionally described by kind.
// kind is usually one of the predefined sentinel errors of the caller:
//  var ErrIO = errors.New("sector i/o failed")
//
//  func readBoot(dev Device) error {
//  	err := dev.ReadSector(0, buf)
//  	return checkpoint.Wrap(err, ErrIO)
//  }
// Afterwards errors.Is matches both ErrIO and whatever dev returned.
// Wrap returns nil if prev is nil.
func Wrap(prev, kind error) error {
	if prev == nil {
		return nil
	}
	if prev == io.EOF {
		return io.EOF
	}

	return newCheckpoint(kind, prev, "")
}

// Wrapf works like Wrap but adds a formatted detail, for example the sector
// or cluster that was being processed.
func Wrapf(prev, kind error, format string, args ...interface{}) error {
	if prev == nil {
		return nil
	}
	if prev == io.EOF {
		return io.EOF
	}

	return newCheckpoint(kind, prev, fmt.Sprintf(format, args...))
}

// New creates a checkpoint which has no previous error.
// Use it to return a sentinel together with some detail.
func New(kind error, format string, args ...interface{}) error {
	return newCheckpoint(kind, nil, fmt.Sprintf(format, args...))
}

func newCheckpoint(kind, prev error, detail string) *checkpoint {
	// Skip newCheckpoint and the exported function calling it.
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		kind:   kind,
		prev:   prev,
		detail: detail,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	kind   error
	prev   error
	detail string

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) Error() string {
	location := "unknown"
	if e.callerOk {
		location = fmt.Sprintf("%s:%d", e.file, e.line)
	}

	msg := e.kind.Error()
	if e.detail != "" {
		msg += ": " + e.detail
	}

	if e.prev == nil {
		return fmt.Sprintf("at %s\n\t%s", location, msg)
	}

	prev := e.prev.Error()
	if _, ok := e.prev.(*checkpoint); !ok {
		prev = "at unknown\n\t" + strings.ReplaceAll(prev, "\n", "\n\t")
	}

	return fmt.Sprintf("at %s\n\t%s\n%s", location, msg, prev)
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return errors.Is(e.kind, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return errors.As(e.kind, target)
}
