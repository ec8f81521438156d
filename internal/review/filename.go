package review

import (
	"fmt"
	"time"
)

// Filename resolves a unique output path for a review generated on the
// given date: "<folder>/<YYYY-MM-DD> Weekly Review.md", with a numeric
// disambiguator when taken. Pure given the exists snapshot; the caller
// owns the check-then-create window.
func Filename(folder string, now time.Time, loc *time.Location, exists func(string) bool) string {
	if loc != nil {
		now = now.In(loc)
	}
	base := now.Format("2006-01-02") + " Weekly Review"

	path := joinFolder(folder, base+".md")
	for n := 2; exists(path); n++ {
		path = joinFolder(folder, fmt.Sprintf("%s %d.md", base, n))
	}
	return path
}

func joinFolder(folder, name string) string {
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
