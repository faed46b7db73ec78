package linebreak

import (
	"unicode"
	"unicode/utf8"
)

// BreakpointKind 标注断点性质，决定修剪与成本。
type BreakpointKind uint8

const (
	// BreakNormal 普通断点（空白或破折号之后）。
	BreakNormal BreakpointKind = iota
	// BreakMandatory 强制断点（显式换行或段尾）。
	BreakMandatory
	// BreakHyphen 断词断点，行尾需补连字符。
	BreakHyphen
)

// Breakpoint 描述一个候选断点。Left/Right 仅在断词断点上有效，
// 记录断点两侧在词内的字符数，用于靠近词缘时加价。
type Breakpoint struct {
	Kind  BreakpointKind
	Left  int
	Right int
}

// Breakpoints 按终点递增的顺序枚举所有允许断行的位置。
// end 为候选行（含待修剪的尾随空白）的终点字节下标；yield 返回
// false 时停止枚举。段尾必定产生一个强制断点。
func (p *Paragraph) Breakpoints(yield func(end int, bp Breakpoint) bool) {
	text := p.Spec.Text
	n := len(text)
	lastEnd := -1
	emit := func(end int, bp Breakpoint) bool {
		lastEnd = end
		return yield(end, bp)
	}

	wordStart := -1
	flushWord := func(wordEnd int) bool {
		if wordStart < 0 {
			return true
		}
		word := text[wordStart:wordEnd]
		start := wordStart
		wordStart = -1
		if p.Spec.Hyphenate == nil {
			return true
		}
		runes := utf8.RuneCountInString(word)
		for _, off := range p.Spec.Hyphenate(p.Spec.Lang, word) {
			if off <= 0 || off >= len(word) {
				continue
			}
			left := utf8.RuneCountInString(word[:off])
			if !emit(start+off, Breakpoint{Kind: BreakHyphen, Left: left, Right: runes - left}) {
				return false
			}
		}
		return true
	}

	inSpace := false
	for pos := 0; pos < n; {
		r, sz := utf8.DecodeRuneInString(text[pos:])
		switch {
		case r == '\n':
			if !flushWord(pos) {
				return
			}
			inSpace = false
			if !emit(pos+sz, Breakpoint{Kind: BreakMandatory}) {
				return
			}
		case unicode.IsSpace(r):
			if !flushWord(pos) {
				return
			}
			inSpace = true
		default:
			if inSpace {
				// 空白结束处才是断点：下一行从非空白字符开始。
				inSpace = false
				if !emit(pos, Breakpoint{Kind: BreakNormal}) {
					return
				}
			}
			if wordStart < 0 {
				wordStart = pos
			}
			if isDash(r) && pos+sz < n {
				next, _ := utf8.DecodeRuneInString(text[pos+sz:])
				if !unicode.IsSpace(next) {
					// 破折号之后允许直接断行。
					if !flushWord(pos + sz) {
						return
					}
					if !emit(pos+sz, Breakpoint{Kind: BreakNormal}) {
						return
					}
				}
			}
		}
		pos += sz
	}
	if !flushWord(n) {
		return
	}
	if lastEnd != n || n == 0 {
		emit(n, Breakpoint{Kind: BreakMandatory})
	}
}

func isDash(r rune) bool {
	return r == '-' || r == '–' || r == '—'
}
