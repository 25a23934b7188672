package service

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	linkPattern       = regexp.MustCompile(`https?://\S+`)
	unimportantSymbol = regexp.MustCompile(`[(),."'|/\-+&]`)
)

const specialChars = "•@#$%^&*_[]{}|;'\"<>/"

// TextService чистит описания из фидов поставщиков перед отправкой в Ozon.
type TextService struct{}

func NewTextService() *TextService {
	return &TextService{}
}

func (ts *TextService) RemoveTags(input string) string {
	return tagPattern.ReplaceAllString(html.UnescapeString(input), " ")
}

func (ts *TextService) RemoveSpecialChars(input string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(specialChars, r) {
			return -1
		}
		return r
	}, input)
}

func (ts *TextService) RemoveLinks(input string) string {
	return linkPattern.ReplaceAllString(input, "")
}

func (ts *TextService) CollapseSpaces(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// ReduceToLength обрезает по границе слова. Длина в символах, не в байтах.
func (ts *TextService) ReduceToLength(input string, length int) string {
	if utf8.RuneCountInString(input) <= length {
		return input
	}
	var builder strings.Builder
	total := 0
	for i, word := range strings.Fields(input) {
		wordLen := utf8.RuneCountInString(word)
		if i > 0 {
			wordLen++
		}
		if total+wordLen > length {
			break
		}
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(word)
		total += wordLen
	}
	return builder.String()
}

// SmartReduceToLength сначала выкидывает второстепенные знаки и только потом режет слова.
func (ts *TextService) SmartReduceToLength(input string, length int) string {
	if utf8.RuneCountInString(input) > length {
		input = ts.CollapseSpaces(unimportantSymbol.ReplaceAllString(input, ""))
	}
	return ts.ReduceToLength(input, length)
}

func (ts *TextService) ClearAndReduce(input string, length int) string {
	cleaned := ts.RemoveLinks(ts.RemoveTags(input))
	cleaned = ts.CollapseSpaces(ts.RemoveSpecialChars(cleaned))
	return ts.SmartReduceToLength(cleaned, length)
}
