package utils

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestBytesEquals(t *testing.T) {
	if !BytesEquals(nil, nil) {
		t.Error("nil should equal nil")
	}
	if BytesEquals(nil, []byte{}) {
		t.Error("nil should not equal empty slice")
	}
	if !BytesEquals([]byte("a\r\nb"), []byte("a\r\nb")) {
		t.Error("equal slices reported unequal")
	}
	if BytesEquals([]byte("ab"), []byte("ac")) {
		t.Error("unequal slices reported equal")
	}
}

func TestToLines(t *testing.T) {
	lines := ToLines("SET", "key")
	if len(lines) != 2 || string(lines[0]) != "SET" || string(lines[1]) != "key" {
		t.Error("ToLines failed")
	}
}

func TestLimitedReaderExactSize(t *testing.T) {
	src := strings.Repeat("a", 16)
	r := NewLimitedReader(strings.NewReader(src), 16)
	data, err := io.ReadAll(r)
	if err != nil {
		t.Error(err)
		return
	}
	if string(data) != src {
		t.Error("content mismatch")
	}
	if r.Count() != 16 {
		t.Errorf("expected count 16, actually %d", r.Count())
	}
}

func TestLimitedReaderExceeded(t *testing.T) {
	r := NewLimitedReader(bytes.NewReader(bytes.Repeat([]byte("a"), 100)), 10)
	data, err := io.ReadAll(r)
	if !errors.Is(err, ErrReadLimit) {
		t.Errorf("expected ErrReadLimit, actually %v", err)
	}
	if len(data) != 10 {
		t.Errorf("expected 10 bytes before limit, actually %d", len(data))
	}
	if _, err := r.Read(make([]byte, 4)); !errors.Is(err, ErrReadLimit) {
		t.Error("limit error should be sticky")
	}
}

func TestLimitedReaderUnlimited(t *testing.T) {
	r := NewLimitedReader(strings.NewReader("hello"), 0)
	data, err := io.ReadAll(r)
	if err != nil || string(data) != "hello" {
		t.Error("unlimited read failed")
	}
	if _, err := NewLimitedReader(nil, 0).Read(make([]byte, 1)); err == nil {
		t.Error("expected error for nil source")
	}
}
