// Package storage defines the Storage interface, the contract every
// student backend satisfies.
//
// Handlers (HTTP layer) only depend on this interface, so the in-memory
// map and the in-memory SQLite backend are interchangeable, and tests can
// pass either one.
package storage

import (
	"errors"

	"github.com/aanand-mishra/students-inmem/internal/types"
)

// ErrNotFound is returned (wrapped) by every lookup, update and delete
// that references an ID not present in the store. Check it with errors.Is.
var ErrNotFound = errors.New("not found")

// Storage is the student store contract.
//
// Implementations must serialize operations: no call may observe a
// partially applied effect of another.
type Storage interface {
	// CreateStudent assigns the next ID, stores the record and returns a
	// copy of what was stored.
	CreateStudent(in types.StudentInput) (types.Student, error)

	// GetStudentByID fetches a single student. Returns ErrNotFound if the
	// ID does not exist.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every stored student, in no particular order.
	// Returns an empty slice (not nil) if there are none.
	GetStudents() ([]types.Student, error)

	// UpdateStudentByID overwrites every field except the ID and returns
	// the updated record. Returns ErrNotFound if the ID does not exist.
	UpdateStudentByID(id int64, in types.StudentInput) (types.Student, error)

	// DeleteStudentByID removes a student and returns it as it was just
	// before removal. Returns ErrNotFound if the ID does not exist.
	DeleteStudentByID(id int64) (types.Student, error)
}
