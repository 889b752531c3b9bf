package formatter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// NumberFormat describes how quantities of one commodity are printed,
// learned from a sample such as "1.000,00 EUR" or "$1,000.00".
type NumberFormat struct {
	DecimalMark   rune
	ThousandsSep  string
	DecimalPlaces int32
	HasDecimal    bool
}

func ParseNumberFormat(sample string) NumberFormat {
	nf := NumberFormat{DecimalMark: '.'}

	number := numberPart(sample)
	if number == "" {
		return nf
	}

	dot := strings.LastIndex(number, ".")
	comma := strings.LastIndex(number, ",")
	mark, other := dot, comma
	if comma > dot {
		nf.DecimalMark = ','
		mark, other = comma, dot
	}

	if mark < 0 {
		if strings.Contains(number, " ") {
			nf.ThousandsSep = " "
		}
		return nf
	}

	nf.HasDecimal = true
	nf.DecimalPlaces = int32(len(number) - mark - 1)
	switch {
	case other >= 0:
		nf.ThousandsSep = string(number[other])
	case strings.Contains(number[:mark], " "):
		nf.ThousandsSep = " "
	}
	return nf
}

// numberPart returns the first run of digits, marks and spaces in s that
// contains at least one digit.
func numberPart(s string) string {
	start, end := -1, -1
	digits := false
	for i, r := range s {
		isNumber := unicode.IsDigit(r) || r == '.' || r == ',' || r == ' '
		if !isNumber {
			if start >= 0 {
				break
			}
			continue
		}
		if start < 0 {
			start = i
		}
		if unicode.IsDigit(r) {
			digits = true
		}
		end = i + utf8.RuneLen(r)
	}
	if !digits {
		return ""
	}
	return strings.TrimSpace(s[start:end])
}

func (nf NumberFormat) Format(qty decimal.Decimal) string {
	var text string
	if nf.HasDecimal {
		text = qty.StringFixed(nf.DecimalPlaces)
	} else {
		text = qty.Round(0).String()
	}

	negative := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(text, "-")
	intPart, fracPart, _ := strings.Cut(text, ".")

	if nf.ThousandsSep != "" && len(intPart) > 3 {
		var groups []string
		for len(intPart) > 3 {
			groups = append([]string{intPart[len(intPart)-3:]}, groups...)
			intPart = intPart[:len(intPart)-3]
		}
		intPart = strings.Join(append([]string{intPart}, groups...), nf.ThousandsSep)
	}

	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}
	sb.WriteString(intPart)
	if nf.HasDecimal && nf.DecimalPlaces > 0 {
		sb.WriteRune(nf.DecimalMark)
		sb.WriteString(fracPart)
	}
	return sb.String()
}
