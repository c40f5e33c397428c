package note

import "time"

// TimeGroup buckets a timestamp by its age relative to now.
type TimeGroup int

// Time groups, newest first.
const (
	GroupToday TimeGroup = iota
	GroupYesterday
	GroupOlderTwoDays
	GroupOlderWeek
	GroupOlderMonth
)

// String returns the display name of the group.
func (g TimeGroup) String() string {
	switch g {
	case GroupToday:
		return "today"
	case GroupYesterday:
		return "yesterday"
	case GroupOlderTwoDays:
		return "older_two_days"
	case GroupOlderWeek:
		return "older_week"
	case GroupOlderMonth:
		return "older_month"
	}
	return "unknown"
}

// TimeGroupForTimestamp classifies a Unix timestamp against now, checking
// the largest threshold first.
func TimeGroupForTimestamp(ts int64) TimeGroup {
	switch age := time.Since(time.Unix(ts, 0)); {
	case age > 30*24*time.Hour:
		return GroupOlderMonth
	case age > 7*24*time.Hour:
		return GroupOlderWeek
	case age > 2*24*time.Hour:
		return GroupOlderTwoDays
	case age > 24*time.Hour:
		return GroupYesterday
	}
	return GroupToday
}
