package parser

import (
	"errors"
	"strconv"
)

// Rule tags a parse node with the grammar rule that matched it
type Rule int

const (
	// RuleInteger matches `:` [-] digits CRLF
	RuleInteger Rule = iota + 1
	// RuleBulkString matches `$` N CRLF <N bytes> CRLF
	RuleBulkString
	// RuleArray matches `*` M CRLF followed by M elements
	RuleArray
	// RuleText is the payload literal inside a bulk string
	RuleText
	// RuleNullBulk matches `$-1` CRLF, only when Options.AllowNullBulk is set
	RuleNullBulk
)

var ruleNames = map[Rule]string{
	RuleInteger:    "integer",
	RuleBulkString: "bulk string",
	RuleArray:      "array",
	RuleText:       "text",
	RuleNullBulk:   "null bulk string",
}

var ruleSigils = map[Rule]byte{
	RuleInteger:    ':',
	RuleBulkString: '$',
	RuleArray:      '*',
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return "rule(" + strconv.Itoa(int(r)) + ")"
}

// the shortest element is ":0\r\n" or "*0\r\n"
const minElementLen = 4

// Node is one matched grammar rule. Leaf nodes (RuleInteger, RuleText) carry the matched literal in Raw,
// compound nodes carry children. Raw aliases the input buffer.
type Node struct {
	Rule     Rule
	Raw      []byte
	Children []*Node
	// Offset is the position of the first byte of the element in the input buffer
	Offset int
	// Len is the number of bytes the element consumed, including terminators
	Len int
}

// End returns the position right after the element
func (n *Node) End() int {
	return n.Offset + n.Len
}

// Options bounds declared sizes and switches optional grammar extensions. A bound <= 0 is disabled.
type Options struct {
	// MaxBulkLen bounds the declared length of bulk strings, like proto-max-bulk-len
	MaxBulkLen int
	// MaxArrayLen bounds the declared element count of arrays
	MaxArrayLen int
	// MaxDepth bounds array nesting
	MaxDepth int
	// MaxInputLen bounds the bytes ParseStream reads from its source
	MaxInputLen int
	// AllowNullBulk accepts `$-1\r\n` as a null bulk string instead of rejecting it
	AllowNullBulk bool
	// LenientArrays keeps consuming grammar-matching elements after the declared count is satisfied
	LenientArrays bool
}

// DefaultOptions returns the limits redis applies to client requests
func DefaultOptions() Options {
	return Options{
		MaxBulkLen:  512 * 1024 * 1024,
		MaxArrayLen: 1024 * 1024,
		MaxDepth:    128,
		MaxInputLen: 1024 * 1024 * 1024,
	}
}

// Parse recognizes a single element of the given rule at the start of data with DefaultOptions.
// Bytes after the element are left untouched, see Node.Len.
func Parse(rule Rule, data []byte) (*Node, error) {
	return ParseWithOptions(rule, data, DefaultOptions())
}

// ParseWithOptions is Parse with caller supplied limits and extensions
func ParseWithOptions(rule Rule, data []byte, opts Options) (*Node, error) {
	sigil, ok := ruleSigils[rule]
	if !ok {
		return nil, ErrUnknownRule
	}
	c := &cursor{data: data, opts: &opts}
	if len(data) == 0 {
		return nil, syntaxError(ErrKindUnterminated, 0, "expected "+rule.String()+", got end of input")
	}
	if data[0] != sigil {
		return nil, syntaxError(ErrKindPrefix, 0,
			"expected "+strconv.QuoteRune(rune(sigil))+", got "+strconv.QuoteRune(rune(data[0])))
	}
	return c.parseElement()
}

// parseNext parses whichever element starts at pos
func parseNext(data []byte, pos int, opts *Options) (*Node, error) {
	c := &cursor{data: data, pos: pos, opts: opts}
	return c.parseElement()
}

type cursor struct {
	data  []byte
	pos   int
	depth int
	opts  *Options
}

func isSigil(b byte) bool {
	return b == ':' || b == '$' || b == '*'
}

func (c *cursor) parseElement() (*Node, error) {
	if c.pos >= len(c.data) {
		return nil, syntaxError(ErrKindUnterminated, c.pos, "expected element, got end of input")
	}
	switch c.data[c.pos] {
	case ':':
		return c.parseInteger()
	case '$':
		return c.parseBulkString()
	case '*':
		return c.parseArray()
	}
	return nil, syntaxError(ErrKindPrefix, c.pos, "unexpected type byte "+strconv.QuoteRune(rune(c.data[c.pos])))
}

// readNumberLine consumes [-] digits CRLF and returns the sign and digits
func (c *cursor) readNumberLine() ([]byte, error) {
	start := c.pos
	i := start
	if i < len(c.data) && c.data[i] == '-' {
		i++
	}
	digits := i
	for i < len(c.data) && c.data[i] >= '0' && c.data[i] <= '9' {
		i++
	}
	if i < len(c.data) {
		if i == digits {
			return nil, syntaxError(ErrKindNumber, i, "expected decimal digits, got "+strconv.QuoteRune(rune(c.data[i])))
		}
		if c.data[i] != '\r' {
			return nil, syntaxError(ErrKindNumber, i, "unexpected byte "+strconv.QuoteRune(rune(c.data[i]))+" in number")
		}
	}
	if err := c.expectCRLF(i); err != nil {
		return nil, err
	}
	c.pos = i + 2
	return c.data[start:i], nil
}

func (c *cursor) expectCRLF(i int) error {
	if i+2 > len(c.data) {
		return syntaxError(ErrKindUnterminated, i, "missing CRLF")
	}
	if c.data[i] != '\r' || c.data[i+1] != '\n' {
		return syntaxError(ErrKindUnterminated, i, "missing or invalid EOL")
	}
	return nil
}

func (c *cursor) readLength() (int, error) {
	start := c.pos
	literal, err := c.readNumberLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(string(literal))
	if err != nil {
		return 0, syntaxError(ErrKindNumber, start, "illegal length "+strconv.Quote(string(literal)))
	}
	return n, nil
}

func (c *cursor) parseInteger() (*Node, error) {
	start := c.pos
	c.pos++
	literal, err := c.readNumberLine()
	if err != nil {
		return nil, err
	}
	return &Node{
		Rule:   RuleInteger,
		Raw:    literal,
		Offset: start,
		Len:    c.pos - start,
	}, nil
}

func (c *cursor) parseBulkString() (*Node, error) {
	start := c.pos
	c.pos++
	n, err := c.readLength()
	if err != nil {
		return nil, err
	}
	if n == -1 && c.opts.AllowNullBulk {
		return &Node{
			Rule:   RuleNullBulk,
			Offset: start,
			Len:    c.pos - start,
		}, nil
	}
	if n < 0 {
		return nil, syntaxError(ErrKindLength, start+1, "bulk string length must be >= 0, got "+strconv.Itoa(n))
	}
	if c.opts.MaxBulkLen > 0 && n > c.opts.MaxBulkLen {
		return nil, &LimitError{What: "bulk length", Declared: n, Max: c.opts.MaxBulkLen}
	}
	avail := len(c.data) - c.pos
	if n > avail {
		return nil, syntaxError(ErrKindLength, c.pos,
			"payload shorter than declared length "+strconv.Itoa(n)+", "+strconv.Itoa(avail)+" bytes available")
	}
	if n > avail-2 {
		return nil, syntaxError(ErrKindUnterminated, c.pos+n, "missing CRLF after payload")
	}
	if c.data[c.pos+n] != '\r' || c.data[c.pos+n+1] != '\n' {
		return nil, syntaxError(ErrKindLength, c.pos+n, "payload longer than declared length "+strconv.Itoa(n))
	}
	text := &Node{
		Rule:   RuleText,
		Raw:    c.data[c.pos : c.pos+n],
		Offset: c.pos,
		Len:    n,
	}
	c.pos += n + 2
	return &Node{
		Rule:     RuleBulkString,
		Children: []*Node{text},
		Offset:   start,
		Len:      c.pos - start,
	}, nil
}

func (c *cursor) parseArray() (*Node, error) {
	start := c.pos
	c.pos++
	m, err := c.readLength()
	if err != nil {
		return nil, err
	}
	if m < 0 {
		return nil, syntaxError(ErrKindLength, start+1, "array length must be >= 0, got "+strconv.Itoa(m))
	}
	if c.opts.MaxArrayLen > 0 && m > c.opts.MaxArrayLen {
		return nil, &LimitError{What: "multibulk length", Declared: m, Max: c.opts.MaxArrayLen}
	}
	if c.opts.MaxDepth > 0 && c.depth >= c.opts.MaxDepth {
		return nil, &LimitError{What: "nesting depth", Declared: c.depth + 1, Max: c.opts.MaxDepth}
	}
	if remain := len(c.data) - c.pos; m > remain/minElementLen {
		return nil, syntaxError(ErrKindLength, c.pos,
			"declared "+strconv.Itoa(m)+" elements, only "+strconv.Itoa(remain)+" bytes available")
	}
	c.depth++
	defer func() {
		c.depth--
	}()

	children := make([]*Node, 0, m)
	for i := 0; i < m; i++ {
		child, err := c.parseElement()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if c.opts.LenientArrays {
		children, err = c.parseTrailing(children)
		if err != nil {
			return nil, err
		}
	}
	return &Node{
		Rule:     RuleArray,
		Children: children,
		Offset:   start,
		Len:      c.pos - start,
	}, nil
}

// parseTrailing greedily appends elements following a satisfied array. An element that fails to parse is
// backtracked and left for the caller, except a LimitError which is always reported.
func (c *cursor) parseTrailing(children []*Node) ([]*Node, error) {
	for c.pos < len(c.data) && isSigil(c.data[c.pos]) {
		if c.opts.MaxArrayLen > 0 && len(children) >= c.opts.MaxArrayLen {
			break
		}
		mark := c.pos
		child, err := c.parseElement()
		if err != nil {
			if errors.Is(err, ErrLimitExceeded) {
				return nil, err
			}
			c.pos = mark
			break
		}
		children = append(children, child)
	}
	return children, nil
}
