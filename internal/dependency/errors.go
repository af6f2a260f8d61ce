package dependency

import "errors"

var (
	// ErrSelfReference is returned when a field names itself as a direct
	// dependency. It aborts the whole rebuild before anything is written.
	ErrSelfReference = errors.New("field cannot reference itself")

	// ErrCircularDependency is returned when persisting an edge would
	// introduce a cycle among the resolved edges.
	ErrCircularDependency = errors.New("circular field dependency")
)
