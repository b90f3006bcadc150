package checkpoint

import (
	"errors"
	"io"
	"strings"
	"testing"
)

var (
	errKind   = errors.New("sector i/o failed")
	errDevice = errors.New("device gone")
)

type sectorError struct {
	lba uint64
}

func (s sectorError) Error() string { return "bad sector" }

func TestFrom(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantNil bool
		wantIs  error
	}{
		{name: "nil stays nil", err: nil, wantNil: true},
		{name: "EOF is passed through", err: io.EOF, wantIs: io.EOF},
		{name: "unexpected EOF is passed through", err: io.ErrUnexpectedEOF, wantIs: io.ErrUnexpectedEOF},
		{name: "any other error is decorated", err: errDevice, wantIs: errDevice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if (got == nil) != tt.wantNil {
				t.Fatalf("From() = %v, wantNil %v", got, tt.wantNil)
			}
			if tt.wantNil {
				return
			}
			if !errors.Is(got, tt.wantIs) {
				t.Errorf("From() = %v, want errors.Is %v", got, tt.wantIs)
			}
		})
	}

	if err := From(errDevice); err == errDevice {
		t.Errorf("From() did not decorate the error")
	}
}

func TestWrap(t *testing.T) {
	if got := Wrap(nil, errKind); got != nil {
		t.Errorf("Wrap(nil) = %v, want nil", got)
	}
	if got := Wrap(io.EOF, errKind); got != io.EOF {
		t.Errorf("Wrap(io.EOF) = %v, want io.EOF", got)
	}

	err := Wrap(errDevice, errKind)
	if !errors.Is(err, errKind) {
		t.Errorf("Wrap() = %v, does not match the kind", err)
	}
	if !errors.Is(err, errDevice) {
		t.Errorf("Wrap() = %v, does not match the previous error", err)
	}
	if !strings.Contains(err.Error(), "checkpoint_test.go") {
		t.Errorf("Wrap() = %q, want caller information", err.Error())
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(sectorError{lba: 7}, errKind, "lba %d", 7)
	if !strings.Contains(err.Error(), "sector i/o failed: lba 7") {
		t.Errorf("Wrapf() = %q, want the detail in the message", err.Error())
	}

	var se sectorError
	if !errors.As(err, &se) || se.lba != 7 {
		t.Errorf("Wrapf() = %v, errors.As could not find the previous error", err)
	}

	if got := Wrapf(nil, errKind, "lba %d", 1); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}
}

func TestNew(t *testing.T) {
	err := New(errKind, "cluster %d", 3)
	if !errors.Is(err, errKind) {
		t.Errorf("New() = %v, want errors.Is %v", err, errKind)
	}
	if errors.Unwrap(err) != nil {
		t.Errorf("New() unexpectedly has a previous error")
	}
	if !strings.Contains(err.Error(), "cluster 3") {
		t.Errorf("New() = %q, want the detail", err.Error())
	}
}

func TestNestedCheckpoints(t *testing.T) {
	inner := Wrap(errDevice, errKind)
	outer := From(inner)

	if !errors.Is(outer, errKind) || !errors.Is(outer, errDevice) {
		t.Errorf("nested checkpoint lost an error: %v", outer)
	}
	if strings.Count(outer.Error(), "checkpoint_test.go") < 2 {
		t.Errorf("nested checkpoint = %q, want both positions", outer.Error())
	}
}
