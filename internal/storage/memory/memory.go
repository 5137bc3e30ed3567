// Package memory provides the default storage.Storage backend: a Go map
// guarded by a single mutex.
//
// Every method holds the lock for its whole body, reads included, so
// operations are strictly serialized with respect to each other.
package memory

import (
	"fmt"
	"sync"

	"github.com/aanand-mishra/students-inmem/internal/idgen"
	"github.com/aanand-mishra/students-inmem/internal/storage"
	"github.com/aanand-mishra/students-inmem/internal/types"
)

// Memory is the in-process implementation of storage.Storage.
type Memory struct {
	mu       sync.Mutex
	ids      *idgen.Generator
	students map[int64]types.Student
}

// New returns an empty store that draws IDs from gen.
// A nil gen gets a fresh generator starting at 1.
func New(gen *idgen.Generator) *Memory {
	if gen == nil {
		gen = idgen.New()
	}
	return &Memory{
		ids:      gen,
		students: make(map[int64]types.Student),
	}
}

// CreateStudent allocates the ID inside the critical section, so map
// contents always match the order IDs were handed out.
func (m *Memory) CreateStudent(in types.StudentInput) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student := types.NewStudent(m.ids.Next(), in)
	m.students[student.ID] = student

	return student, nil
}

func (m *Memory) GetStudentByID(id int64) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, notFound(id)
	}
	return student, nil
}

// GetStudents returns a snapshot; the slice is owned by the caller.
// Order follows Go map iteration and is therefore unspecified.
func (m *Memory) GetStudents() ([]types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	students := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	return students, nil
}

func (m *Memory) UpdateStudentByID(id int64, in types.StudentInput) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return types.Student{}, notFound(id)
	}

	updated := types.NewStudent(id, in)
	m.students[id] = updated
	return updated, nil
}

func (m *Memory) DeleteStudentByID(id int64) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, notFound(id)
	}

	delete(m.students, id)
	return student, nil
}

// Count reports how many students are currently stored.
func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.students)
}

func notFound(id int64) error {
	return fmt.Errorf("student %d: %w", id, storage.ErrNotFound)
}
