package ir

import "strconv"

// ObjectRef refers to an object of class Class.  ID is the reference id
// assigned to the object, or RootRef when it has none.
type ObjectRef struct {
	Class string
	ID    int
}

func (r ObjectRef) String() string {
	if r.ID == RootRef {
		return r.Class
	}
	return r.Class + "#" + strconv.Itoa(r.ID)
}
