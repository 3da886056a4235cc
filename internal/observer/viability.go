package observer

import "strings"

// placeholderMarkers are the patterns that mark code as unfinished. Any
// occurrence makes the code non-viable.
var placeholderMarkers = []string{
	"todo",
	"fixme",
	"...",
	"pass  # todo",
	"raise notimplementederror",
	"# placeholder",
	"# stub",
}

// CheckViable reports whether code looks complete enough to ship: non-blank
// and free of placeholder markers. Purely local, no oracle round-trip.
func CheckViable(code string) bool {
	if strings.TrimSpace(code) == "" {
		return false
	}

	lower := strings.ToLower(code)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// CheckViable on the client delegates to the package heuristic so the
// coordinator can treat the client as its single oracle dependency.
func (c *Client) CheckViable(code string) bool {
	return CheckViable(code)
}
