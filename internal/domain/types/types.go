// Package types contains common types used across the application
package types

// Entry represents one leaderboard record.
type Entry struct {
	ID       int64   `json:"id" yaml:"-"`
	Name     string  `json:"name" yaml:"name"`
	Link     *string `json:"link" yaml:"link"`
	Time     int64   `json:"time" yaml:"time"`
	Items    int     `json:"items" yaml:"items"`
	Hardmode bool    `json:"hardmode" yaml:"hardmode"`
}

// RanksBefore reports whether e sorts strictly before o in leaderboard order:
// time ascending, then items ascending.
func (e Entry) RanksBefore(o Entry) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	return e.Items < o.Items
}

// Filter restricts which entries a read returns.
type Filter struct {
	// HardmodeOnly keeps only entries flagged as hardmode.
	HardmodeOnly bool
}

// Page selects a contiguous window of the ordered leaderboard.
type Page struct {
	Filter
	Limit  int
	Offset int
}

// IsOrdered reports whether entries are in leaderboard order.
func IsOrdered(entries []Entry) bool {
	for i := 1; i < len(entries); i++ {
		if entries[i].RanksBefore(entries[i-1]) {
			return false
		}
	}
	return true
}
