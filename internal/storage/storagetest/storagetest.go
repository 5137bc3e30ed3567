// Package storagetest is a conformance suite shared by every
// storage.Storage backend. Backend packages call Run from their own tests.
package storagetest

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-inmem/internal/storage"
	"github.com/aanand-mishra/students-inmem/internal/types"
)

// Factory returns a fresh, empty store whose first ID is 1.
type Factory func(t *testing.T) storage.Storage

// Sample inputs, also used by backend-specific tests.
var (
	Ada =types.StudentInput{
		FirstName: "Ada", LastName: "Lovelace", Department: "Math",
		IsGraduated: true, Age: 36,
	}
	Alan = types.StudentInput{
		FirstName: "Alan", LastName: "Turing", Department: "CS",
		IsGraduated: true, Age: 41,
	}
)

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) { testCreateIDs(t, newStore(t)) })
	t.Run("CreateThenGet", func(t *testing.T) { testCreateThenGet(t, newStore(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newStore(t)) })
	t.Run("Scenario", func(t *testing.T) { testScenario(t, newStore(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore(t)) })
	t.Run("IDsNotReused", func(t *testing.T) { testIDsNotReused(t, newStore(t)) })
	t.Run("ConcurrentCreate", func(t *testing.T) { testConcurrentCreate(t, newStore(t)) })
}

func testCreateIDs(t *testing.T, s storage.Storage) {
	var last int64
	for i := 0; i < 20; i++ {
		st, err := s.CreateStudent(Ada)
		require.NoError(t, err)
		require.Greater(t, st.ID, last)
		last = st.ID
	}
}

func testCreateThenGet(t *testing.T, s storage.Storage) {
	created, err := s.CreateStudent(Ada)
	require.NoError(t, err)
	assert.Equal(t, types.NewStudent(1, Ada), created)

	got, err := s.GetStudentByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func testListEmpty(t *testing.T, s storage.Storage) {
	list, err := s.GetStudents()
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func testScenario(t *testing.T, s storage.Storage) {
	ada, err := s.CreateStudent(Ada)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ada.ID)

	alan, err := s.CreateStudent(Alan)
	require.NoError(t, err)
	assert.Equal(t, int64(2), alan.ID)

	list, err := s.GetStudents()
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.Student{ada, alan}, list)

	deleted, err := s.DeleteStudentByID(1)
	require.NoError(t, err)
	assert.Equal(t, ada, deleted)

	_, err = s.GetStudentByID(1)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	list, err = s.GetStudents()
	require.NoError(t, err)
	assert.Equal(t, []types.Student{alan}, list)
}

func testUpdate(t *testing.T, s storage.Storage) {
	created, err := s.CreateStudent(Ada)
	require.NoError(t, err)

	changed := Alan
	changed.IsGraduated = false
	changed.Age = 0

	updated, err := s.UpdateStudentByID(created.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, types.NewStudent(created.ID, changed), updated)

	got, err := s.GetStudentByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func testNotFound(t *testing.T, s storage.Storage) {
	_, err := s.GetStudentByID(42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.UpdateStudentByID(42, Ada)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.DeleteStudentByID(42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	created, err := s.CreateStudent(Ada)
	require.NoError(t, err)
	_, err = s.DeleteStudentByID(created.ID)
	require.NoError(t, err)

	_, err = s.GetStudentByID(created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.UpdateStudentByID(created.ID, Alan)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.DeleteStudentByID(created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// a failed update must not resurrect the record
	list, err := s.GetStudents()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testIDsNotReused(t *testing.T, s storage.Storage) {
	first, err := s.CreateStudent(Ada)
	require.NoError(t, err)
	_, err = s.DeleteStudentByID(first.ID)
	require.NoError(t, err)

	second, err := s.CreateStudent(Ada)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func testConcurrentCreate(t *testing.T, s storage.Storage) {
	const n = 100

	before, err := s.GetStudents()
	require.NoError(t, err)

	ids := make([]int64, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st, err := s.CreateStudent(Alan)
			ids[i], errs[i] = st.ID, err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i := 1; i < n; i++ {
		require.NotEqual(t, ids[i-1], ids[i], "duplicate id %d", ids[i])
	}

	after, err := s.GetStudents()
	require.NoError(t, err)
	assert.Len(t, after, len(before)+n)
}
