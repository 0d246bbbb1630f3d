package summary

import (
	"time"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/scheduler"
)

// DayPoint is the busy time of one day.
type DayPoint struct {
	DateKey string
	Hours   float64
}

// LoadSeries returns the merged busy hours of user for each of the days
// ending at end, oldest first.
func LoadSeries(snap *event.Snapshot, sched *scheduler.Scheduler, user event.Owner, end time.Time, days int) []DayPoint {
	if days <= 0 {
		return nil
	}
	last := dateutil.Date(end)
	out := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		dk := dateutil.Key(last.AddDate(0, 0, -i))
		load := sched.DayLoad(snap, dk, user)
		out = append(out, DayPoint{DateKey: dk, Hours: round1(float64(load.TotalBusyMinutes) / 60)})
	}
	return out
}
