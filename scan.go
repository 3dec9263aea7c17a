package wisp

import (
	"strconv"
	"strings"

	"github.com/wisp-lang/wisp/internal/scan"
)

// Scan is the scanner's public entry point (§4.6, C6): it tokenizes src
// with internal/scan and builds a nested Block of Cells, recognizing
// matching `[...]`/`(...)` as BLOCK!/GROUP! and path/tuple segments
// (`a/b`, `a.b`) within a single word token. Every produced word cell is
// interned against Symbols() (doc.go) and left Unbound — binding happens
// separately (bind.go), once the caller knows what specifier to attach.
func Scan(src string) (Cell, error) {
	InitRuntime()
	s := scan.New(src)
	block, err := scanSequence(s, scan.KindEOF)
	if err != nil {
		return Cell{}, err
	}
	var c Cell
	InitBlock(&c, block)
	return c, nil
}

// scanSequence scans tokens until it sees closeKind (KindEOF for the
// top-level source, KindBlockClose/KindGroupClose for a nested `[...]`/
// `(...)`), returning the elements collected as an array series.
func scanSequence(s *scan.Scanner, closeKind scan.Kind) (*Series, error) {
	out := NewArraySeries(8)
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == closeKind {
			return out, nil
		}
		if tok.Kind == scan.KindEOF {
			return nil, &scan.Error{Line: tok.Line, Col: tok.Col, Msg: "unexpected end of input inside block/group"}
		}

		var c Cell
		switch tok.Kind {
		case scan.KindBlockOpen:
			sub, err := scanSequence(s, scan.KindBlockClose)
			if err != nil {
				return nil, err
			}
			InitBlock(&c, sub)
		case scan.KindGroupOpen:
			sub, err := scanSequence(s, scan.KindGroupClose)
			if err != nil {
				return nil, err
			}
			InitGroup(&c, sub)
		default:
			c, err = tokenToCell(tok)
			if err != nil {
				return nil, err
			}
		}
		c.MarkNewlineBefore(tok.NewlineBefore)
		out.Append(c)
	}
}

// tokenToCell converts a single (non-bracket) token into a Cell.
func tokenToCell(tok scan.Token) (Cell, error) {
	var c Cell
	switch tok.Kind {
	case scan.KindInteger:
		n, err := strconv.ParseInt(strings.ReplaceAll(tok.Text, "'", ""), 10, 64)
		if err != nil {
			return Cell{}, &scan.Error{Line: tok.Line, Col: tok.Col, Msg: "integer overflow: " + tok.Text}
		}
		InitInteger(&c, n)

	case scan.KindDecimal:
		text := strings.TrimSuffix(tok.Text, "%")
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Cell{}, &scan.Error{Line: tok.Line, Col: tok.Col, Msg: "malformed decimal: " + tok.Text}
		}
		if strings.HasSuffix(tok.Text, "%") {
			f /= 100
		}
		InitDecimal(&c, f)

	case scan.KindPair:
		x, y, err := parsePair(tok.Text)
		if err != nil {
			return Cell{}, &scan.Error{Line: tok.Line, Col: tok.Col, Msg: err.Error()}
		}
		InitPair(&c, x, y)

	case scan.KindDate:
		days, zone, err := parseDate(tok.Text)
		if err != nil {
			return Cell{}, &scan.Error{Line: tok.Line, Col: tok.Col, Msg: err.Error()}
		}
		InitDate(&c, days, zone)

	case scan.KindTime:
		nanos, err := parseTime(tok.Text)
		if err != nil {
			return Cell{}, &scan.Error{Line: tok.Line, Col: tok.Col, Msg: err.Error()}
		}
		InitTime(&c, nanos)

	case scan.KindBinary:
		b, err := parseBinary(tok.Text)
		if err != nil {
			return Cell{}, &scan.Error{Line: tok.Line, Col: tok.Col, Msg: err.Error()}
		}
		s := NewBinarySeries(len(b))
		s.AppendBytes(b)
		InitBinary(&c, s)

	case scan.KindString, scan.KindBracedString:
		s := NewStringSeries(len(tok.Text))
		s.AppendBytes([]byte(tok.Text))
		InitString(&c, s)

	case scan.KindFile:
		s := NewStringSeries(len(tok.Text))
		s.AppendBytes([]byte(tok.Text))
		InitFile(&c, s)

	case scan.KindURL:
		s := NewStringSeries(len(tok.Text))
		s.AppendBytes([]byte(tok.Text))
		InitURL(&c, s)

	case scan.KindEmail:
		s := NewStringSeries(len(tok.Text))
		s.AppendBytes([]byte(tok.Text))
		InitEmail(&c, s)

	case scan.KindTag:
		s := NewStringSeries(len(tok.Text))
		s.AppendBytes([]byte(tok.Text))
		InitTag(&c, s)

	case scan.KindIssue:
		r := rune(0)
		if len(tok.Text) > 0 {
			r = []rune(tok.Text)[0]
		}
		InitIssue(&c, r)

	case scan.KindWord, scan.KindSetWord, scan.KindGetWord, scan.KindMetaWord, scan.KindTheWord, scan.KindTypeWord:
		return wordOrPathCell(tok)

	default:
		return Cell{}, &scan.Error{Line: tok.Line, Col: tok.Col, Msg: "unsupported token kind"}
	}
	return c, nil
}

// wordHeartFor maps a word-sigil token kind to its word heart. For a
// PATH!/TUPLE! token such as `a/b:`, the outer cell's own heart stays
// HeartPath/HeartTuple (see wordOrPathCell).
func wordHeartFor(k scan.Kind) Heart {
	switch k {
	case scan.KindSetWord:
		return HeartSetWord
	case scan.KindGetWord:
		return HeartGetWord
	case scan.KindMetaWord:
		return HeartMetaWord
	case scan.KindTheWord:
		return HeartTheWord
	case scan.KindTypeWord:
		return HeartTypeWord
	default:
		return HeartWord
	}
}

// wordOrPathCell builds a plain word cell, or — if the token's text
// contains `/` or `.` — a PATH!/TUPLE! of plain-word/integer segments
// (§4.6: "words... and their path/tuple/group/block forms"). For a path
// or tuple, a set or get sigil is recorded in the outer cell's extra
// word; other sigils are dropped.
func wordOrPathCell(tok scan.Token) (Cell, error) {
	var c Cell
	if !strings.ContainsAny(tok.Text, "/.") {
		sym := Symbols().Intern(tok.Text)
		InitWord(&c, wordHeartFor(tok.Kind), sym)
		return c, nil
	}

	sep, heart := byte('/'), HeartPath
	if !strings.Contains(tok.Text, "/") {
		sep, heart = '.', HeartTuple
	}
	segs := strings.Split(tok.Text, string(sep))
	arr := NewArraySeries(len(segs))
	for _, seg := range segs {
		var sc Cell
		if isAllDigitsWisp(seg) {
			n, _ := strconv.ParseInt(seg, 10, 64)
			InitInteger(&sc, n)
		} else {
			sym := Symbols().Intern(seg)
			InitWord(&sc, HeartWord, sym)
		}
		arr.Append(sc)
	}
	switch heart {
	case HeartPath:
		InitPath(&c, arr)
	default:
		InitTuple(&c, arr)
	}
	// A trailing-`:` SET-WORD sigil on a path (`a/b:`) makes the whole
	// path a "set-path"; wisp folds that distinction into extra, since
	// Heart is already carrying Block/Group/Path/Tuple's container
	// identity and should not multiply into SetPath/GetPath hearts too.
	if tok.Kind == scan.KindSetWord || tok.Kind == scan.KindGetWord {
		c.extra = int64(wordHeartFor(tok.Kind))
	}
	return c, nil
}

func isAllDigitsWisp(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
