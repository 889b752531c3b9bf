package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is a calendar step; zero fields are ignored.
type Interval struct {
	Years  int
	Months int
	Days   int
}

func (i Interval) IsZero() bool {
	return i == Interval{}
}

// Period is a parsed period expression such as "monthly from 2024/01".
type Period struct {
	Interval Interval
	Begin    time.Time
	End      time.Time
}

// Next returns the occurrence following t, or false when the period has no
// interval or the next step falls on or after End.
func (p *Period) Next(t time.Time) (time.Time, bool) {
	if p.Interval.IsZero() {
		return time.Time{}, false
	}
	next := t.AddDate(p.Interval.Years, p.Interval.Months, p.Interval.Days)
	if !p.End.IsZero() && !next.Before(p.End) {
		return time.Time{}, false
	}
	return next, true
}

var namedIntervals = map[string]Interval{
	"daily":     {Days: 1},
	"weekly":    {Days: 7},
	"biweekly":  {Days: 14},
	"monthly":   {Months: 1},
	"bimonthly": {Months: 2},
	"quarterly": {Months: 3},
	"yearly":    {Years: 1},
	"annually":  {Years: 1},
}

// ParsePeriod understands named intervals, "every [N] unit", and the bounds
// "from|since DATE" and "to|until DATE". Dates may be YYYY, YYYY/MM or YYYY/MM/DD.
func ParsePeriod(text string) (*Period, error) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return nil, fmt.Errorf("empty period")
	}

	p := &Period{}
	for i := 0; i < len(words); i++ {
		w := words[i]
		if iv, ok := namedIntervals[w]; ok {
			p.Interval = iv
			continue
		}
		switch w {
		case "every":
			n := 1
			if i+1 < len(words) {
				if v, err := strconv.Atoi(words[i+1]); err == nil {
					if v <= 0 {
						return nil, fmt.Errorf("invalid period %q", text)
					}
					n = v
					i++
				}
			}
			if i+1 >= len(words) {
				return nil, fmt.Errorf("period %q: missing unit after every", text)
			}
			i++
			iv, err := unitInterval(words[i], n)
			if err != nil {
				return nil, fmt.Errorf("period %q: %w", text, err)
			}
			p.Interval = iv
		case "from", "since", "to", "until":
			if i+1 >= len(words) {
				return nil, fmt.Errorf("period %q: missing date after %s", text, w)
			}
			i++
			begin, _, err := parsePeriodDate(words[i])
			if err != nil {
				return nil, fmt.Errorf("period %q: %w", text, err)
			}
			if w == "from" || w == "since" {
				p.Begin = begin
			} else {
				p.End = begin
			}
		case "in":
			if i+1 >= len(words) {
				return nil, fmt.Errorf("period %q: missing date after in", text)
			}
			i++
			begin, end, err := parsePeriodDate(words[i])
			if err != nil {
				return nil, fmt.Errorf("period %q: %w", text, err)
			}
			p.Begin, p.End = begin, end
		default:
			return nil, fmt.Errorf("period %q: unexpected %q", text, w)
		}
	}

	if p.Interval.IsZero() && p.Begin.IsZero() && p.End.IsZero() {
		return nil, fmt.Errorf("period %q has neither interval nor range", text)
	}
	if !p.Begin.IsZero() && !p.End.IsZero() && !p.Begin.Before(p.End) {
		return nil, fmt.Errorf("period %q ends before it begins", text)
	}
	return p, nil
}

func unitInterval(unit string, n int) (Interval, error) {
	switch strings.TrimSuffix(unit, "s") {
	case "day":
		return Interval{Days: n}, nil
	case "week":
		return Interval{Days: 7 * n}, nil
	case "month":
		return Interval{Months: n}, nil
	case "quarter":
		return Interval{Months: 3 * n}, nil
	case "year":
		return Interval{Years: n}, nil
	}
	return Interval{}, fmt.Errorf("unknown unit %q", unit)
}

// parsePeriodDate returns the first instant of the named span and the first
// instant after it.
func parsePeriodDate(s string) (begin, end time.Time, err error) {
	parts, err := splitDate(s)
	if err != nil {
		return begin, end, err
	}
	switch len(parts) {
	case 1:
		begin, err = makeDate(s, parts[0], 1, 1)
		end = begin.AddDate(1, 0, 0)
	case 2:
		begin, err = makeDate(s, parts[0], parts[1], 1)
		end = begin.AddDate(0, 1, 0)
	case 3:
		begin, err = makeDate(s, parts[0], parts[1], parts[2])
		end = begin.AddDate(0, 0, 1)
	default:
		err = fmt.Errorf("invalid date %q", s)
	}
	return begin, end, err
}
