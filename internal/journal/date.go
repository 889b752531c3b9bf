package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate accepts YYYY/MM/DD, YYYY-MM-DD, YYYY.MM.DD and the short MM/DD
// form, which takes its year from year (the current year when zero).
func ParseDate(s string, year int) (time.Time, error) {
	parts, err := splitDate(s)
	if err != nil {
		return time.Time{}, err
	}

	var y, m, d int
	switch len(parts) {
	case 2:
		y = year
		if y == 0 {
			y = time.Now().Year()
		}
		m, d = parts[0], parts[1]
	case 3:
		y, m, d = parts[0], parts[1], parts[2]
	default:
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return makeDate(s, y, m, d)
}

func makeDate(s string, y, m, d int) (time.Time, error) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	if t.Day() != d {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func splitDate(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty date")
	}
	sep := strings.IndexAny(s, "/-.")
	if sep < 0 {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", s)
		}
		return []int{n}, nil
	}
	fields := strings.Split(s, string(s[sep]))
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || f == "" {
			return nil, fmt.Errorf("invalid date %q", s)
		}
		parts[i] = n
	}
	return parts, nil
}
