package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Brazilian locale conventions: comma decimal separator, period thousands
// separator, dates as DD/MM/YYYY.

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatDate renders a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateTime renders a date-time as "DD/MM/YYYY às HH:MM" (24-hour).
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006") + " às " + t.Format("15:04")
}

// FormatDateExtenso renders a date in long form, e.g. "5 de março de 2024".
func FormatDateExtenso(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// dateLayouts are tried in order when parsing caller-supplied date strings.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDate attempts to interpret s as a calendar date. Unparseable input
// is not an error at the processing layer; the caller simply skips the
// derived fields.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatCurrency renders an amount as "R$ 1.234,56".
func FormatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, decPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + decPart
	if neg {
		out = "-" + out
	}
	return out
}

// digitsOnly strips every non-digit rune from s.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCPF renders an identity number as NNN.NNN.NNN-NN after stripping
// non-digits. Fewer than 11 digits yields an empty string; check digits
// are not validated.
func FormatCPF(s string) string {
	d := digitsOnly(s)
	if len(d) < 11 {
		return ""
	}
	d = d[:11]
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// FormatCNPJ renders a company registry number as NN.NNN.NNN/NNNN-NN under
// the same stripping rule; fewer than 14 digits yields an empty string.
func FormatCNPJ(s string) string {
	d := digitsOnly(s)
	if len(d) < 14 {
		return ""
	}
	d = d[:14]
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}
