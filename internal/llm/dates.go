package llm

import "time"

// dateLayout is the DD-MM-YY format the vision prompt demands.
const dateLayout = "02-01-06"

// DaysBeforeExpire computes end − start in whole days from two DD-MM-YY date
// strings. The span may be negative; the caller reports it as-is. Any parse
// failure (wrong format, impossible calendar date) yields nil, never an
// error.
func DaysBeforeExpire(start, end string) *int {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil
	}
	days := int(e.Sub(s).Hours() / 24)
	return &days
}
