package cycle

import (
	"sort"
	"time"

	"github.com/md-rashed-zaman/pipetrack/model"
)

// DayBucket holds the records scheduled on one calendar day. Key is the
// stable YYYY-MM-DD form of that day.
type DayBucket struct {
	Key          string
	Appointments []model.Appointment
}

const dayKeyLayout = "2006-01-02"

// GroupByDay buckets an already-sorted record list by the calendar date of
// its scheduled time in the given location. Buckets are ordered by their key
// with the same toggle as the record sort; records inside a bucket keep the
// order they arrived in.
func GroupByDay(appts []model.Appointment, order Order, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.Local
	}

	byKey := make(map[string]int)
	var buckets []DayBucket
	for _, a := range appts {
		key := a.ScheduledAt.In(loc).Format(dayKeyLayout)
		idx, ok := byKey[key]
		if !ok {
			idx = len(buckets)
			byKey[key] = idx
			buckets = append(buckets, DayBucket{Key: key})
		}
		buckets[idx].Appointments = append(buckets[idx].Appointments, a)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if order == Descending {
			return buckets[i].Key > buckets[j].Key
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}
