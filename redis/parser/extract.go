package parser

import (
	"github.com/hdt3213/resp/redis/protocol"
	"strconv"
)

// Extract converts a parse tree into its semantic value
func Extract(node *Node) (protocol.Value, error) {
	if node == nil {
		return nil, ErrMalformedNode
	}
	var value protocol.Value
	var err error
	switch node.Rule {
	case RuleInteger:
		value, err = ExtractInteger(node)
	case RuleBulkString:
		value, err = ExtractText(node)
	case RuleArray:
		value, err = ExtractArray(node)
	case RuleNullBulk:
		value = protocol.MakeNullValue()
	default:
		err = ErrMalformedNode
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// ExtractInteger converts the literal of an integer node into a 32-bit signed integer
func ExtractInteger(node *Node) (*protocol.IntValue, error) {
	if node == nil || node.Rule != RuleInteger {
		return nil, ErrMalformedNode
	}
	literal := string(node.Raw)
	code, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		return nil, &ConversionError{
			Literal: literal,
			Err:     err,
		}
	}
	return protocol.MakeIntValue(int32(code)), nil
}

// ExtractText returns an owned copy of the whole payload of a bulk string node, embedded CR LF included
func ExtractText(node *Node) (*protocol.TextValue, error) {
	if node == nil || node.Rule != RuleBulkString {
		return nil, ErrMalformedNode
	}
	for _, child := range node.Children {
		if child.Rule == RuleText {
			arg := make([]byte, len(child.Raw))
			copy(arg, child.Raw)
			return protocol.MakeTextValue(arg), nil
		}
	}
	return nil, ErrMalformedNode
}

// ExtractArray converts the children of an array node in order. Children with a rule that is not an
// element are skipped and leave no gap in the result.
func ExtractArray(node *Node) (*protocol.ArrayValue, error) {
	if node == nil || node.Rule != RuleArray {
		return nil, ErrMalformedNode
	}
	items := make([]protocol.Value, 0, len(node.Children))
	for _, child := range node.Children {
		var item protocol.Value
		var err error
		switch child.Rule {
		case RuleInteger:
			item, err = ExtractInteger(child)
		case RuleBulkString:
			item, err = ExtractText(child)
		case RuleArray:
			item, err = ExtractArray(child)
		case RuleNullBulk:
			item = protocol.MakeNullValue()
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return protocol.MakeArrayValue(items), nil
}
