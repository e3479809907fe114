package parser

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/hdt3213/resp/lib/utils"
	"github.com/hdt3213/resp/redis/protocol"
	"io"
	"runtime/debug"
)

// Payload stores protocol.Value or error
type Payload struct {
	Data protocol.Value
	Err  error
}

// Decode parses one element of the given rule at the start of data and extracts its value
func Decode(rule Rule, data []byte) (protocol.Value, error) {
	return DecodeWithOptions(rule, data, DefaultOptions())
}

// DecodeWithOptions is Decode with caller supplied limits and extensions
func DecodeWithOptions(rule Rule, data []byte, opts Options) (protocol.Value, error) {
	node, err := ParseWithOptions(rule, data, opts)
	if err != nil {
		return nil, err
	}
	return Extract(node)
}

// ParseOne parses the first element of data, whatever its type, and returns its parse tree
func ParseOne(data []byte) (*Node, error) {
	return parseNext(data, 0, withDefaults())
}

func withDefaults() *Options {
	opts := DefaultOptions()
	return &opts
}

// ParseBytes reads concatenated elements from data and returns all values
func ParseBytes(data []byte) ([]protocol.Value, error) {
	return ParseBytesWithOptions(data, DefaultOptions())
}

// ParseBytesWithOptions is ParseBytes with caller supplied limits and extensions
func ParseBytesWithOptions(data []byte, opts Options) ([]protocol.Value, error) {
	var results []protocol.Value
	for pos := 0; pos < len(data); {
		node, err := parseNext(data, pos, &opts)
		if err != nil {
			return nil, err
		}
		value, err := Extract(node)
		if err != nil {
			return nil, err
		}
		results = append(results, value)
		pos = node.End()
	}
	return results, nil
}

// ParseStream reads all of reader, bounded by opts.MaxInputLen, then sends one payload per element.
// The channel is closed after the last element or after the first error.
func ParseStream(reader io.Reader, opts Options) <-chan *Payload {
	ch := make(chan *Payload)
	go parse0(reader, opts, ch)
	return ch
}

func parse0(rawReader io.Reader, opts Options, ch chan<- *Payload) {
	defer close(ch)
	defer func() {
		if err := recover(); err != nil {
			ch <- &Payload{Err: fmt.Errorf("parser panic: %v\n%s", err, debug.Stack())}
		}
	}()
	reader := utils.NewLimitedReader(rawReader, opts.MaxInputLen)
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		if errors.Is(err, utils.ErrReadLimit) {
			err = MakeInputLimitError(reader.Limit())
		}
		ch <- &Payload{Err: err}
		return
	}
	data := buf.Bytes()
	for pos := 0; pos < len(data); {
		node, err := parseNext(data, pos, &opts)
		if err != nil {
			ch <- &Payload{Err: err}
			return
		}
		value, err := Extract(node)
		if err != nil {
			ch <- &Payload{Err: err}
			return
		}
		ch <- &Payload{Data: value}
		pos = node.End()
	}
}
