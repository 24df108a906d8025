package environment

import (
	"log"
	"time"
)

// Clock produces timezone-aware local time summaries for prompts and status
// text. It never fails: unknown zones fall back to UTC.
type Clock struct {
	zoneName string
	loc      *time.Location
}

func NewClock(timezone string) *Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("environment: unknown timezone %q, falling back to UTC: %v", timezone, err)
		return &Clock{zoneName: "UTC", loc: time.UTC}
	}
	return &Clock{zoneName: timezone, loc: loc}
}

// Summary returns the current local time, e.g.
// "2026-08-29 18:04 Friday (Asia/Shanghai)".
func (c *Clock) Summary() string {
	now := time.Now().In(c.loc)
	return now.Format("2006-01-02 15:04 Monday") + " (" + c.zoneName + ")"
}
