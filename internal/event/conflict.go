package event

// FindConflicts returns the records on dateKey whose time range touches or
// overlaps the candidate's. Ranges are closed: an event ending at 10:00
// conflicts with one starting at 10:00. A missing end time is treated as a
// point at the start time.
//
// Scaffold blocks (IsDefault), the record named by excludeID, records of
// unrelated owners, and records without a start time never conflict.
// Results follow the day's ascending id order.
func FindConflicts(snap *Snapshot, dateKey string, candidate Event, excludeID string) []Event {
	candStart, candEnd, ok := closedRange(candidate)
	if !ok {
		return nil
	}

	var conflicts []Event
	for _, existing := range snap.Day(dateKey) {
		if existing.ID == excludeID || existing.IsDefault {
			continue
		}
		if !Relevant(candidate.Owner, existing.Owner) {
			continue
		}
		start, end, ok := closedRange(existing)
		if !ok {
			continue
		}
		if candStart <= end && start <= candEnd {
			conflicts = append(conflicts, existing)
		}
	}
	return conflicts
}

// closedRange returns the [start, end] minutes of a record.
func closedRange(e Event) (start, end int, ok bool) {
	start, ok = TimeToMinutes(e.StartTime)
	if !ok {
		return 0, 0, false
	}
	end, endOK := TimeToMinutes(e.EndTime)
	if !endOK {
		end = start
	}
	return start, end, true
}
