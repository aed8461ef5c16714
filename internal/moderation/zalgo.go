package moderation

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// MaxCombiningMarks столько комбинируемых знаков допускается (обычные диакритики)
const MaxCombiningMarks = 2

var combiningMarks = rangetable.Merge(
	// Combining Diacritical Marks
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036F, Stride: 1}}},
	// Combining Diacritical Marks Extended
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x1AB0, Hi: 0x1AFF, Stride: 1}}},
	// Combining Diacritical Marks Supplement
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x1DC0, Hi: 0x1DFF, Stride: 1}}},
)

func CountCombiningMarks(text string) int {
	count := 0
	for _, r := range text {
		if unicode.Is(combiningMarks, r) {
			count++
		}
	}
	return count
}

// IsZalgo определяет "глитч"-текст по количеству комбинируемых знаков
func IsZalgo(text string) bool {
	return CountCombiningMarks(text) > MaxCombiningMarks
}
