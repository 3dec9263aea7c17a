package wisp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tiendc/go-deepcopy"
	"google.golang.org/protobuf/encoding/protowire"
)

// MoldOptions controls Mold's output (§6's mold interface, used both for
// REPL display and Map's key normalization, mapv.go).
type MoldOptions struct {
	// Form renders strings, files and binaries without their delimiters
	// (REBOL's FORM vs MOLD distinction); words keep their sigils. Used for
	// map keys, for CALL's argv, and for frame labels in CaptureWhere.
	Form bool
}

// Mold renders c as wisp source text, round-tripping through Scan for
// every literal type §8's "scanner round-trip" testable property
// exercises.
func Mold(c *Cell, opts MoldOptions) string {
	var sb strings.Builder
	moldInto(&sb, c, opts)
	return sb.String()
}

func moldInto(sb *strings.Builder, c *Cell, opts MoldOptions) {
	if c.IsQuasi() {
		sb.WriteByte('~')
		unq := *c
		unq.quote = quoteUnquoted
		moldInto(sb, &unq, opts)
		sb.WriteByte('~')
		return
	}
	if depth := c.QuoteDepth(); depth > 0 {
		for i := 0; i < depth; i++ {
			sb.WriteByte('\'')
		}
		unq := *c
		unq.setDepth(0)
		moldInto(sb, &unq, opts)
		return
	}

	switch c.Heart() {
	case HeartNone:
		sb.WriteString("none")
	case HeartLogic:
		if c.AsLogic() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case HeartInteger:
		sb.WriteString(strconv.FormatInt(c.AsInteger(), 10))
	case HeartDecimal:
		sb.WriteString(strconv.FormatFloat(c.AsDecimal(), 'g', -1, 64))
	case HeartPair:
		x, y := c.AsPair()
		fmt.Fprintf(sb, "%dx%d", x, y)
	case HeartIssue:
		sb.WriteRune(c.AsIssue())
	case HeartBlock, HeartGroup:
		open, closeStr := "[", "]"
		if c.Heart() == HeartGroup {
			open, closeStr = "(", ")"
		}
		sb.WriteString(open)
		s := c.Series()
		for i := 0; i < s.Len(); i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			moldInto(sb, s.At(i), opts)
		}
		sb.WriteString(closeStr)
	case HeartPath, HeartTuple:
		sep := "/"
		if c.Heart() == HeartTuple {
			sep = "."
		}
		s := c.Series()
		for i := 0; i < s.Len(); i++ {
			if i > 0 {
				sb.WriteString(sep)
			}
			moldInto(sb, s.At(i), opts)
		}
	case HeartWord, HeartSetWord, HeartGetWord, HeartMetaWord, HeartTheWord, HeartTypeWord:
		moldWord(sb, c)
	case HeartString:
		moldStringLike(sb, c, opts, '"', '"')
	case HeartFile:
		if !opts.Form {
			sb.WriteByte('%')
		}
		sb.Write(c.Series().Bytes())
	case HeartURL, HeartEmail:
		sb.Write(c.Series().Bytes())
	case HeartTag:
		sb.WriteByte('<')
		sb.Write(c.Series().Bytes())
		sb.WriteByte('>')
	case HeartBinary:
		if !opts.Form {
			sb.WriteString("#{")
		}
		sb.WriteString(fmt.Sprintf("%x", c.Series().Bytes()))
		if !opts.Form {
			sb.WriteByte('}')
		}
	case HeartMap:
		sb.WriteString("#(")
		first := true
		c.AsMap().All(func(k, v *Cell) bool {
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			moldInto(sb, k, opts)
			sb.WriteByte(' ')
			moldInto(sb, v, opts)
			return true
		})
		sb.WriteByte(')')
	case HeartContext:
		sb.WriteString("make object! [...]")
	case HeartAction:
		sb.WriteString("make action! [...]")
	default:
		fmt.Fprintf(sb, "<%s>", c.Heart())
	}
}

func moldWord(sb *strings.Builder, c *Cell) {
	sym := c.Symbol()
	spelling := ""
	if sym != nil {
		spelling = sym.Spelling()
	}
	switch c.Heart() {
	case HeartSetWord:
		sb.WriteString(spelling)
		sb.WriteByte(':')
	case HeartGetWord:
		sb.WriteByte(':')
		sb.WriteString(spelling)
	case HeartMetaWord:
		sb.WriteByte('^')
		sb.WriteString(spelling)
	case HeartTheWord:
		sb.WriteByte('@')
		sb.WriteString(spelling)
	case HeartTypeWord:
		sb.WriteByte('&')
		sb.WriteString(spelling)
	default:
		sb.WriteString(spelling)
	}
}

func moldStringLike(sb *strings.Builder, c *Cell, opts MoldOptions, open, closeB byte) {
	if opts.Form {
		sb.Write(c.Series().Bytes())
		return
	}
	sb.WriteByte(open)
	for _, b := range c.Series().Bytes() {
		switch b {
		case '"':
			sb.WriteString(`^"`)
		case '\n':
			sb.WriteString("^/")
		case '\t':
			sb.WriteString("^-")
		case '^':
			sb.WriteString("^^")
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte(closeB)
}

// --- mold/flat: compact binary serialization ---------------------------

// moldFlat tags, reusing protowire's varint/length-delimited wire shapes
// purely as a compact encoding primitive (wisp never constructs or parses
// actual protobuf messages; protowire is just a well-tested varint/zigzag/
// tag codec, grounded on the teacher's own use of the same package one
// layer up).
const (
	flatTagHeart    = protowire.Number(1)
	flatTagQuote    = protowire.Number(2)
	flatTagInt      = protowire.Number(3)
	flatTagFloat    = protowire.Number(4)
	flatTagBytes    = protowire.Number(5)
	flatTagElemCount = protowire.Number(6)
)

// MoldFlat serializes c into wisp's compact binary form: a self-describing
// tag/value stream built from protowire primitives. It writes a payload
// for integer, logic, issue, decimal, pair, string-like, binary and
// word-class cells and for block/group/path/tuple nesting; any other
// heart (none among them) is written as its heart and quote only. Unlike
// Mold, this is meant for transport/storage, not display.
func MoldFlat(c *Cell) []byte {
	var buf []byte
	return moldFlatInto(buf, c)
}

func moldFlatInto(buf []byte, c *Cell) []byte {
	buf = protowire.AppendTag(buf, flatTagHeart, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(c.Heart()))
	buf = protowire.AppendTag(buf, flatTagQuote, protowire.VarintType)
	buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(c.quote)))

	switch c.Heart() {
	case HeartInteger, HeartLogic, HeartIssue:
		buf = protowire.AppendTag(buf, flatTagInt, protowire.VarintType)
		buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(c.first.bits)))
	case HeartDecimal:
		buf = protowire.AppendTag(buf, flatTagFloat, protowire.Fixed64Type)
		buf = protowire.AppendFixed64(buf, c.first.bits)
	case HeartPair:
		x, y := c.AsPair()
		buf = protowire.AppendTag(buf, flatTagInt, protowire.VarintType)
		buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(x))
		buf = protowire.AppendTag(buf, flatTagFloat, protowire.VarintType)
		buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(y))
	case HeartString, HeartFile, HeartURL, HeartEmail, HeartTag, HeartBinary:
		buf = protowire.AppendTag(buf, flatTagBytes, protowire.BytesType)
		buf = protowire.AppendBytes(buf, c.Series().Bytes())
	case HeartBlock, HeartGroup, HeartPath, HeartTuple:
		s := c.Series()
		buf = protowire.AppendTag(buf, flatTagElemCount, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(s.Len()))
		for i := 0; i < s.Len(); i++ {
			buf = moldFlatInto(buf, s.At(i))
		}
	case HeartWord, HeartSetWord, HeartGetWord, HeartMetaWord, HeartTheWord, HeartTypeWord:
		sym := c.Symbol()
		spelling := ""
		if sym != nil {
			spelling = sym.Spelling()
		}
		buf = protowire.AppendTag(buf, flatTagBytes, protowire.BytesType)
		buf = protowire.AppendBytes(buf, []byte(spelling))
	}
	return buf
}

// UnmoldFlat parses a buffer produced by MoldFlat back into a Cell. It
// returns an error for a pair and for every heart MoldFlat writes without
// a payload.
func UnmoldFlat(buf []byte) (Cell, []byte, error) {
	var c Cell
	heart, buf, err := readFlatField(buf, flatTagHeart)
	if err != nil {
		return Cell{}, nil, err
	}
	quoteZZ, buf, err := readFlatField(buf, flatTagQuote)
	if err != nil {
		return Cell{}, nil, err
	}
	h := Heart(heart)
	q := quoteState(protowire.DecodeZigZag(quoteZZ))

	switch h {
	case HeartInteger, HeartLogic, HeartIssue:
		v, rest, err := readFlatField(buf, flatTagInt)
		if err != nil {
			return Cell{}, nil, err
		}
		InitInteger(&c, protowire.DecodeZigZag(v))
		c.heart = h
		buf = rest
	case HeartDecimal:
		tag, ty, n := protowire.ConsumeTag(buf)
		if n < 0 || protowire.Number(tag) != flatTagFloat || ty != protowire.Fixed64Type {
			return Cell{}, nil, fmt.Errorf("wisp: malformed flat decimal")
		}
		buf = buf[n:]
		bits, n := protowire.ConsumeFixed64(buf)
		if n < 0 {
			return Cell{}, nil, fmt.Errorf("wisp: malformed flat decimal value")
		}
		buf = buf[n:]
		c.first.bits = bits
		c.heart = HeartDecimal
	case HeartString, HeartFile, HeartURL, HeartEmail, HeartTag, HeartBinary:
		b, rest, err := readFlatBytes(buf, flatTagBytes)
		if err != nil {
			return Cell{}, nil, err
		}
		s := newSeriesFlavor(FlavorString, len(b))
		if h == HeartBinary {
			s = newSeriesFlavor(FlavorBinary, len(b))
		}
		s.AppendBytes(b)
		initByteSeriesCell(&c, h, s)
		buf = rest
	case HeartBlock, HeartGroup, HeartPath, HeartTuple:
		count, rest, err := readFlatField(buf, flatTagElemCount)
		if err != nil {
			return Cell{}, nil, err
		}
		buf = rest
		arr := NewArraySeries(int(count))
		for i := uint64(0); i < count; i++ {
			var elem Cell
			elem, buf, err = UnmoldFlat(buf)
			if err != nil {
				return Cell{}, nil, err
			}
			arr.Append(elem)
		}
		initSeriesCell(&c, h, arr)
	case HeartWord, HeartSetWord, HeartGetWord, HeartMetaWord, HeartTheWord, HeartTypeWord:
		b, rest, err := readFlatBytes(buf, flatTagBytes)
		if err != nil {
			return Cell{}, nil, err
		}
		InitRuntime()
		sym := Symbols().Intern(string(b))
		InitWord(&c, h, sym)
		buf = rest
	default:
		return Cell{}, nil, fmt.Errorf("wisp: unsupported flat heart %s", h)
	}

	c.quote = q
	return c, buf, nil
}

func readFlatField(buf []byte, want protowire.Number) (uint64, []byte, error) {
	tag, ty, n := protowire.ConsumeTag(buf)
	if n < 0 || protowire.Number(tag) != want || ty != protowire.VarintType {
		return 0, nil, fmt.Errorf("wisp: malformed flat encoding (expected field %d)", want)
	}
	buf = buf[n:]
	v, n := protowire.ConsumeVarint(buf)
	if n < 0 {
		return 0, nil, fmt.Errorf("wisp: malformed flat varint (field %d)", want)
	}
	return v, buf[n:], nil
}

func readFlatBytes(buf []byte, want protowire.Number) ([]byte, []byte, error) {
	tag, ty, n := protowire.ConsumeTag(buf)
	if n < 0 || protowire.Number(tag) != want || ty != protowire.BytesType {
		return nil, nil, fmt.Errorf("wisp: malformed flat encoding (expected bytes field %d)", want)
	}
	buf = buf[n:]
	v, n := protowire.ConsumeBytes(buf)
	if n < 0 {
		return nil, nil, fmt.Errorf("wisp: malformed flat bytes (field %d)", want)
	}
	return v, buf[n:], nil
}

// --- deep copy -----------------------------------------------------------

// CopyArrayDeep returns a deep copy of every element of s, recursing into
// nested blocks/groups/paths/tuples, using go-deepcopy for the parts of
// the traversal that are plain Go value copies (the bytes of string-like
// and binary series) and doing the series/cell-aware recursion by hand for the parts
// go-deepcopy cannot know about (the series indirection inside a Cell).
func CopyArrayDeep(s *Series) *Series {
	out := NewArraySeries(s.Len())
	for i := 0; i < s.Len(); i++ {
		out.Append(copyCellDeep(s.At(i)))
	}
	return out
}

func copyCellDeep(c *Cell) Cell {
	var dst Cell
	switch c.Heart() {
	case HeartBlock, HeartGroup, HeartPath, HeartTuple:
		initSeriesCell(&dst, c.Heart(), CopyArrayDeep(c.Series()))
		dst.fl = c.fl
		dst.quote = c.quote
		dst.extra = c.extra
		return dst
	case HeartString, HeartFile, HeartURL, HeartEmail, HeartTag, HeartBinary:
		var buf []byte
		if err := deepcopy.Copy(&buf, c.Series().Bytes()); err != nil {
			buf = append([]byte(nil), c.Series().Bytes()...)
		}
		s := newSeriesFlavor(seriesFlavorFor(c.Heart()), len(buf))
		s.AppendBytes(buf)
		initByteSeriesCell(&dst, c.Heart(), s)
		dst.fl, dst.quote, dst.extra = c.fl, c.quote, c.extra
		return dst
	default:
		Copy(&dst, c)
		return dst
	}
}

func seriesFlavorFor(h Heart) Flavor {
	if h == HeartBinary {
		return FlavorBinary
	}
	return FlavorString
}
