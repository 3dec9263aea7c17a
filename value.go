package wisp

import (
	"fmt"
	"math"

	"github.com/wisp-lang/wisp/internal/symtab"
)

// This file is the public construction/accessor surface for cells of each
// heart (§3.3). Each Init* function writes heart + payload into an
// already-allocated *Cell (mirroring the teacher's own "cell is prepped by
// caller, written by constructor" convention) and returns the same
// pointer for chaining.

// --- none / logic -------------------------------------------------------

func InitNone(c *Cell) *Cell {
	*c = Cell{heart: HeartNone}
	return c
}

func InitLogic(c *Cell, v bool) *Cell {
	bits := uint64(0)
	if v {
		bits = 1
	}
	*c = Cell{heart: HeartLogic, first: slot{bits: bits}}
	return c
}

func (c *Cell) AsLogic() bool {
	c.requireHeart(HeartLogic, "AsLogic")
	return c.first.bits != 0
}

// --- integer / decimal ---------------------------------------------------

func InitInteger(c *Cell, v int64) *Cell {
	*c = Cell{heart: HeartInteger, first: slot{bits: uint64(v)}}
	return c
}

func (c *Cell) AsInteger() int64 {
	c.requireHeart(HeartInteger, "AsInteger")
	return int64(c.first.bits)
}

func InitDecimal(c *Cell, v float64) *Cell {
	*c = Cell{heart: HeartDecimal, first: slot{bits: math.Float64bits(v)}}
	return c
}

func (c *Cell) AsDecimal() float64 {
	c.requireHeart(HeartDecimal, "AsDecimal")
	return math.Float64frombits(c.first.bits)
}

// --- pair ----------------------------------------------------------------

func InitPair(c *Cell, x, y int64) *Cell {
	*c = Cell{heart: HeartPair, first: slot{bits: uint64(x)}, second: slot{bits: uint64(y)}}
	return c
}

func (c *Cell) AsPair() (x, y int64) {
	c.requireHeart(HeartPair, "AsPair")
	return int64(c.first.bits), int64(c.second.bits)
}

// --- date / time -----------------------------------------------------------

// InitDate stores a date as (days since epoch, zone offset in minutes).
// The zone offset lives in extra, per §3.1's "small payloads (e.g. ... date
// zone)" mention of the cell's extra word.
func InitDate(c *Cell, epochDays int64, zoneMinutes int32) *Cell {
	*c = Cell{heart: HeartDate, first: slot{bits: uint64(epochDays)}, extra: int64(zoneMinutes)}
	return c
}

func (c *Cell) AsDate() (epochDays int64, zoneMinutes int32) {
	c.requireHeart(HeartDate, "AsDate")
	return int64(c.first.bits), int32(c.extra)
}

// InitTime stores a time-of-day as nanoseconds since midnight.
func InitTime(c *Cell, nanos int64) *Cell {
	*c = Cell{heart: HeartTime, first: slot{bits: uint64(nanos)}}
	return c
}

func (c *Cell) AsTime() int64 {
	c.requireHeart(HeartTime, "AsTime")
	return int64(c.first.bits)
}

// --- issue (single small codepoint or short spelling) ---------------------

func InitIssue(c *Cell, r rune) *Cell {
	*c = Cell{heart: HeartIssue, first: slot{bits: uint64(r)}}
	return c
}

func (c *Cell) AsIssue() rune {
	c.requireHeart(HeartIssue, "AsIssue")
	return rune(c.first.bits)
}

// --- series-backed containers: block/group/path/tuple ---------------------

func initSeriesCell(c *Cell, h Heart, s *Series) *Cell {
	*c = Cell{heart: h, first: slot{node: s}}
	return c
}

func InitBlock(c *Cell, s *Series) *Cell { return initSeriesCell(c, HeartBlock, s) }
func InitGroup(c *Cell, s *Series) *Cell { return initSeriesCell(c, HeartGroup, s) }
func InitPath(c *Cell, s *Series) *Cell  { return initSeriesCell(c, HeartPath, s) }
func InitTuple(c *Cell, s *Series) *Cell { return initSeriesCell(c, HeartTuple, s) }

// Series returns the backing series for any series-backed heart (block,
// group, path, tuple, string, file, url, email, tag, binary, map).
func (c *Cell) Series() *Series {
	c.requireNotFresh("Series")
	if c.first.node == nil {
		panic(fmt.Sprintf("wisp: Series on a %s cell, which is not series-backed", c.heart))
	}
	return c.first.node
}

// --- words -----------------------------------------------------------------

// InitWord writes a word cell of the given heart (one of the six word
// hearts) naming sym, with no binding yet (Binding nil means unbound; see
// bind.go).
func InitWord(c *Cell, h Heart, sym *symtab.Symbol) *Cell {
	switch h {
	case HeartWord, HeartSetWord, HeartGetWord, HeartMetaWord, HeartTheWord, HeartTypeWord:
	default:
		panic("wisp: InitWord with non-word heart")
	}
	*c = Cell{heart: h, first: slot{sym: sym}}
	return c
}

// Symbol returns the interned symbol a word cell names.
func (c *Cell) Symbol() *symtab.Symbol {
	switch c.heart {
	case HeartWord, HeartSetWord, HeartGetWord, HeartMetaWord, HeartTheWord, HeartTypeWord:
	default:
		panic(fmt.Sprintf("wisp: Symbol on a %s cell", c.heart))
	}
	return c.first.sym
}

// --- strings / file / url / email / tag / binary ---------------------------

func initByteSeriesCell(c *Cell, h Heart, s *Series) *Cell {
	*c = Cell{heart: h, first: slot{node: s}}
	return c
}

func InitString(c *Cell, s *Series) *Cell { return initByteSeriesCell(c, HeartString, s) }
func InitFile(c *Cell, s *Series) *Cell   { return initByteSeriesCell(c, HeartFile, s) }
func InitURL(c *Cell, s *Series) *Cell    { return initByteSeriesCell(c, HeartURL, s) }
func InitEmail(c *Cell, s *Series) *Cell  { return initByteSeriesCell(c, HeartEmail, s) }
func InitTag(c *Cell, s *Series) *Cell    { return initByteSeriesCell(c, HeartTag, s) }
func InitBinary(c *Cell, s *Series) *Cell { return initByteSeriesCell(c, HeartBinary, s) }

// requireHeart panics with a useful message if c's heart is not h.
func (c *Cell) requireHeart(h Heart, op string) {
	c.requireNotFresh(op)
	if c.heart != h {
		panic(fmt.Sprintf("wisp: %s expects %s, got %s", op, h, c.heart))
	}
}
