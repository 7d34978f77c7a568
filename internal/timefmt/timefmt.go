// Package timefmt formats the timestamps shown next to applied configurations.
package timefmt

import "time"

// Layout is day/month/year followed by hours and minutes
const Layout = "02/01/2006 15:04"

// Format renders t as DD/MM/YYYY HH:mm in t's own location
func Format(t time.Time) string {
	return t.Format(Layout)
}
