package ir

import "strings"

const (
	// EOFMarker is appended to the boundary to form the final boundary.
	EOFMarker = "//"

	MinBoundaryLen = 8

	DefaultBoundary = "--=_gluon-object-boundary_=--"
)

// ValidBoundary reports whether b may delimit object sections.  A
// boundary ending in EOFMarker would read as a final boundary.
func ValidBoundary(b string) bool {
	return len(b) >= MinBoundaryLen && !strings.HasSuffix(b, EOFMarker)
}
