package asserts

import (
	"fmt"
	"github.com/hdt3213/resp/lib/utils"
	"github.com/hdt3213/resp/redis/protocol"
	"runtime"
	"testing"
)

// AssertIntValue checks if the given protocol.Value is the expected integer
func AssertIntValue(t *testing.T, actual protocol.Value, expected int32) {
	intValue, ok := actual.(*protocol.IntValue)
	if !ok {
		t.Errorf("expected integer, actually %s, %s", describe(actual), printStack())
		return
	}
	if intValue.Code != expected {
		t.Errorf("expected %d, actually %d, %s", expected, intValue.Code, printStack())
	}
}

// AssertTextValue checks if the given protocol.Value is the expected string
func AssertTextValue(t *testing.T, actual protocol.Value, expected string) {
	textValue, ok := actual.(*protocol.TextValue)
	if !ok {
		t.Errorf("expected text, actually %s, %s", describe(actual), printStack())
		return
	}
	if !utils.BytesEquals(textValue.Arg, []byte(expected)) {
		t.Errorf("expected %q, actually %q, %s", expected, textValue.Arg, printStack())
	}
}

// AssertNullValue checks if the given protocol.Value is a null bulk string
func AssertNullValue(t *testing.T, actual protocol.Value) {
	if _, ok := actual.(*protocol.NullValue); !ok {
		t.Errorf("expected null, actually %s, %s", describe(actual), printStack())
	}
}

// AssertArraySize checks if the given protocol.Value is an array with expected length
func AssertArraySize(t *testing.T, actual protocol.Value, expected int) {
	arr, ok := actual.(*protocol.ArrayValue)
	if !ok {
		t.Errorf("expected array, actually %s, %s", describe(actual), printStack())
		return
	}
	if len(arr.Items) != expected {
		t.Errorf("expected %d elements, actually %d, %s", expected, len(arr.Items), printStack())
	}
}

// AssertValue checks if the given protocol.Value is structurally identical to expected
func AssertValue(t *testing.T, actual protocol.Value, expected protocol.Value) {
	if !protocol.Equal(actual, expected) {
		t.Errorf("expected:\n%s\nactually:\n%s\n%s", describe(expected), describe(actual), printStack())
	}
}

func describe(v protocol.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.Kind().String() + " " + protocol.Format(v)
}

func printStack() string {
	_, file, no, ok := runtime.Caller(2)
	if ok {
		return fmt.Sprintf("at %s:%d", file, no)
	}
	return ""
}
