package numerals

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	LangEnglish = "en"
	LangNepali  = "ne"
)

// devanagariZero - U+0966 DEVANAGARI DIGIT ZERO
const devanagariZero = '०'

// Formatter - locale aware number formatting for display strings
type Formatter struct {
	lang    string
	printer *message.Printer
}

// New - "ne" selects Nepali with Devanagari digits, anything else English
func New(lang string) *Formatter {
	tag := language.English
	normalized := LangEnglish
	if strings.EqualFold(strings.TrimSpace(lang), LangNepali) {
		tag = language.Nepali
		normalized = LangNepali
	}

	return &Formatter{
		lang:    normalized,
		printer: message.NewPrinter(tag),
	}
}

func (f *Formatter) Lang() string {
	return f.lang
}

// Int - grouped integer, e.g. 12,345 or १२,३४५
func (f *Formatter) Int(n int) string {
	return f.localize(f.printer.Sprintf("%d", n))
}

// Float - grouped decimal with a fixed number of fraction digits
func (f *Formatter) Float(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return f.localize(f.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v))
}

// Percent - Float with a trailing percent sign
func (f *Formatter) Percent(v float64, decimals int) string {
	return f.Float(v, decimals) + "%"
}

func (f *Formatter) localize(s string) string {
	if f.lang != LangNepali {
		return s
	}
	return ToDevanagari(s)
}

// ToDevanagari - replace ASCII digits with Devanagari ones, leaving other runes
func ToDevanagari(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return devanagariZero + (r - '0')
		}
		return r
	}, s)
}
