package date

import (
	"fmt"
	"strings"
)

// Period is a calendar bucket size.
type Period int

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(p)
	switch p {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %s", p)
	}
}

// StartOf returns the timestamp of the first millisecond of the period
// containing ms.
func (p Period) StartOf(ms int64) int64 {
	return FromMillis(ms).StartOf(p).Millis()
}

// Next returns the timestamp of the first millisecond of the period following
// the one containing ms.
func (p Period) Next(ms int64) int64 {
	return FromMillis(ms).Next(p).Millis()
}
