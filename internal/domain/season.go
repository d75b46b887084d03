package domain

import "time"

// SeasonTable maps calendar months to season names. The aggregator receives
// the table as a value instead of consulting a process-wide setting, so a
// caller analyzing Northern-Hemisphere data can supply its own mapping.
type SeasonTable struct {
	Names      [4]string // indexed by seasonIndex: Dec-Feb, Mar-May, Jun-Aug, Sep-Nov
	Hemisphere string
}

// SouthernSeasons is the default mapping. The EM-DAT analysis this pipeline
// reproduces was written for Southern-Hemisphere reporting: December through
// February is Summer.
var SouthernSeasons = SeasonTable{
	Names:      [4]string{"Summer", "Autumn", "Winter", "Spring"},
	Hemisphere: "south",
}

// NorthernSeasons is the conventional Northern-Hemisphere mapping.
var NorthernSeasons = SeasonTable{
	Names:      [4]string{"Winter", "Spring", "Summer", "Autumn"},
	Hemisphere: "north",
}

// ForMonth returns the season name for a month.
func (s SeasonTable) ForMonth(m time.Month) string {
	return s.Names[seasonIndex(m)]
}

// Order lists the table's season names in meteorological order starting at
// December. Aggregations iterate in this order so ties break the same way
// on every run.
func (s SeasonTable) Order() []string {
	return s.Names[:]
}

func seasonIndex(m time.Month) int {
	switch m {
	case time.December, time.January, time.February:
		return 0
	case time.March, time.April, time.May:
		return 1
	case time.June, time.July, time.August:
		return 2
	default:
		return 3
	}
}

// Quarter returns the calendar quarter (1-4) for a month.
func Quarter(m time.Month) int {
	return (int(m)-1)/3 + 1
}
