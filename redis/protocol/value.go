package protocol

import (
	"github.com/hdt3213/resp/lib/utils"
	"strconv"
	"strings"
)

// CRLF is the line separator of redis serialization protocol
const CRLF = "\r\n"

// Kind identifies the variant of a Value
type Kind int

const (
	// KindInteger is a signed 32-bit integer
	KindInteger Kind = iota + 1
	// KindText is a binary-safe string of exact declared length
	KindText
	// KindArray is an ordered sequence of values
	KindArray
	// KindNull is a null bulk string, only produced when null bulk strings are enabled
	KindNull
)

var kindNames = map[Kind]string{
	KindInteger: "integer",
	KindText:    "text",
	KindArray:   "array",
	KindNull:    "null",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the semantic value extracted from a parsed RESP element
type Value interface {
	Kind() Kind
	String() string
}

/* ---- Integer ---- */

// IntValue stores an int32 number
type IntValue struct {
	Code int32
}

// MakeIntValue creates IntValue
func MakeIntValue(code int32) *IntValue {
	return &IntValue{
		Code: code,
	}
}

// Kind returns KindInteger
func (v *IntValue) Kind() Kind {
	return KindInteger
}

func (v *IntValue) String() string {
	return "(integer) " + strconv.FormatInt(int64(v.Code), 10)
}

/* ---- Text ---- */

// TextValue stores a binary-safe string
type TextValue struct {
	Arg []byte
}

// MakeTextValue creates TextValue
func MakeTextValue(arg []byte) *TextValue {
	return &TextValue{
		Arg: arg,
	}
}

// Kind returns KindText
func (v *TextValue) Kind() Kind {
	return KindText
}

func (v *TextValue) String() string {
	return strconv.Quote(string(v.Arg))
}

/* ---- Array ---- */

// ArrayValue stores an ordered list of values, which may contain nested arrays
type ArrayValue struct {
	Items []Value
}

// MakeArrayValue creates ArrayValue
func MakeArrayValue(items []Value) *ArrayValue {
	return &ArrayValue{
		Items: items,
	}
}

// MakeEmptyArrayValue creates an ArrayValue without items
func MakeEmptyArrayValue() *ArrayValue {
	return &ArrayValue{
		Items: []Value{},
	}
}

// Kind returns KindArray
func (v *ArrayValue) Kind() Kind {
	return KindArray
}

func (v *ArrayValue) String() string {
	return Format(v)
}

/* ---- Null ---- */

// NullValue represents a null bulk string ($-1)
type NullValue struct{}

var theNullValue = &NullValue{}

// MakeNullValue returns the shared NullValue
func MakeNullValue() *NullValue {
	return theNullValue
}

// Kind returns KindNull
func (v *NullValue) Kind() Kind {
	return KindNull
}

func (v *NullValue) String() string {
	return "(nil)"
}

// Equal reports whether a and b are structurally identical value trees
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *IntValue:
		return av.Code == b.(*IntValue).Code
	case *TextValue:
		return utils.BytesEquals(av.Arg, b.(*TextValue).Arg)
	case *ArrayValue:
		bv := b.(*ArrayValue)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *NullValue:
		return true
	}
	return false
}

// Format renders a value tree the way redis-cli prints replies, one item per line with nested indentation
func Format(v Value) string {
	var sb strings.Builder
	format(&sb, v, 0)
	return sb.String()
}

func format(sb *strings.Builder, v Value, indent int) {
	arr, ok := v.(*ArrayValue)
	if !ok {
		sb.WriteString(v.String())
		return
	}
	if len(arr.Items) == 0 {
		sb.WriteString("(empty array)")
		return
	}
	width := len(strconv.Itoa(len(arr.Items)))
	for i, item := range arr.Items {
		if i > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", indent))
		}
		label := strconv.Itoa(i + 1)
		sb.WriteString(strings.Repeat(" ", width-len(label)))
		sb.WriteString(label)
		sb.WriteString(") ")
		format(sb, item, indent+width+2)
	}
}
