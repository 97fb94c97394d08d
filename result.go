package mmdbreader

// Result is the outcome of a Lookup. A Result with Err() == nil and
// Found() == false means the database has no record for the address,
// which callers must be able to tell apart from a lookup failure.
type Result struct {
	value Value
	found bool
	err   error
}

// Found reports whether the database had a record for the looked-up
// address. It is meaningless to call Value when Found returns false.
func (r Result) Found() bool { return r.found }

// Err returns the error that occurred while performing the lookup, if any.
func (r Result) Err() error { return r.err }

// Value returns the decoded record. Its zero value is returned when
// Found() is false or Err() is non-nil.
func (r Result) Value() Value { return r.value }
