package util

import (
	"regexp"
	"strconv"
)

var titleChunks = regexp.MustCompile(`(\d+|\D+)`)

type titleChunk struct {
	text  string
	num   int
	isNum bool
}

func splitTitle(s string) []titleChunk {
	parts := titleChunks.FindAllString(Normalize(s), -1)
	chunks := make([]titleChunk, len(parts))
	for i, p := range parts {
		if num, err := strconv.Atoi(p); err == nil {
			chunks[i] = titleChunk{num: num, isNum: true}
		} else {
			chunks[i] = titleChunk{text: p}
		}
	}
	return chunks
}

// TitleLess orders titles the way a reader expects: accents and case are
// ignored and runs of digits compare by value, so "Vol 2" sorts before
// "Vol 10".
func TitleLess(a, b string) bool {
	ca, cb := splitTitle(a), splitTitle(b)
	for i := 0; i < min(len(ca), len(cb)); i++ {
		x, y := ca[i], cb[i]
		switch {
		case x.isNum && !y.isNum:
			return true
		case !x.isNum && y.isNum:
			return false
		case x.isNum && x.num != y.num:
			return x.num < y.num
		case !x.isNum && x.text != y.text:
			return x.text < y.text
		}
	}
	return len(ca) < len(cb)
}
