// Package sqlite provides a storage.Storage implementation backed by an
// in-memory SQLite database using Go's standard database/sql package.
//
// Nothing is written to disk: the database lives as long as its single
// pooled connection, which is as long as the process (or until Close).
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aanand-mishra/students-inmem/internal/idgen"
	"github.com/aanand-mishra/students-inmem/internal/storage"
	"github.com/aanand-mishra/students-inmem/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the SQL-backed implementation of storage.Storage.
//
// IDs are not produced by SQLite AUTOINCREMENT. They come from the same
// idgen.Generator contract as the map backend and are inserted explicitly.
type SQLite struct {
	Db *sql.DB

	// mu makes every operation one critical section, matching the map
	// backend. The pool is a single connection anyway.
	mu  sync.Mutex
	ids *idgen.Generator
}

// New opens a private in-memory database, creates the students table and
// returns a ready-to-use *SQLite. A nil gen gets a fresh generator.
//
// Each call gets its own uniquely named database, so two stores in the
// same process never see each other's rows.
func New(gen *idgen.Generator) (*SQLite, error) {
	if gen == nil {
		gen = idgen.New()
	}

	dsn := fmt.Sprintf("file:students-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite.New: open db")
	}

	// An in-memory database is dropped when its last connection closes.
	// Pin the pool to one connection that is never recycled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// Schema:
	//   id           — assigned by idgen, never reused
	//   is_graduated — 0/1
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id           INTEGER PRIMARY KEY,
			first_name   TEXT    NOT NULL,
			last_name    TEXT    NOT NULL,
			department   TEXT    NOT NULL,
			is_graduated BOOLEAN NOT NULL,
			age          INTEGER NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sqlite.New: create table")
	}

	return &SQLite{Db: db, ids: gen}, nil
}

// Close releases the connection and with it the database contents.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

const selectColumns = "SELECT id, first_name, last_name, department, is_graduated, age FROM students"

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (types.Student, error) {
	var st types.Student
	err := row.Scan(
		&st.ID,
		&st.FirstName,
		&st.LastName,
		&st.Department,
		&st.IsGraduated,
		&st.Age,
	)
	return st, err
}

func (s *SQLite) CreateStudent(in types.StudentInput) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student := types.NewStudent(s.ids.Next(), in)

	_, err := s.Db.Exec(
		"INSERT INTO students (id, first_name, last_name, department, is_graduated, age) VALUES (?, ?, ?, ?, ?, ?)",
		student.ID, student.FirstName, student.LastName, student.Department, student.IsGraduated, student.Age,
	)
	if err != nil {
		return types.Student{}, errors.Wrap(err, "CreateStudent: exec")
	}

	return student, nil
}

func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, err := scanStudent(s.Db.QueryRow(selectColumns+" WHERE id = ?", id))
	if err != nil {
		return types.Student{}, lookupError(err, id, "GetStudentByID")
	}
	return student, nil
}

func (s *SQLite) GetStudents() ([]types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.Db.Query(selectColumns)
	if err != nil {
		return nil, errors.Wrap(err, "GetStudents: query")
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, errors.Wrap(err, "GetStudents: scan row")
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "GetStudents: rows iteration")
	}

	return students, nil
}

// UpdateStudentByID checks existence and writes inside one transaction,
// so a missing ID never results in a partial write.
func (s *SQLite) UpdateStudentByID(id int64, in types.StudentInput) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.Db.Begin()
	if err != nil {
		return types.Student{}, errors.Wrap(err, "UpdateStudentByID: begin")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	res, err := tx.Exec(
		"UPDATE students SET first_name = ?, last_name = ?, department = ?, is_graduated = ?, age = ? WHERE id = ?",
		in.FirstName, in.LastName, in.Department, in.IsGraduated, in.Age, id,
	)
	if err != nil {
		return types.Student{}, errors.Wrap(err, "UpdateStudentByID: exec")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return types.Student{}, errors.Wrap(err, "UpdateStudentByID: rows affected")
	}
	if n == 0 {
		return types.Student{}, notFound(id)
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, errors.Wrap(err, "UpdateStudentByID: commit")
	}

	return types.NewStudent(id, in), nil
}

// DeleteStudentByID reads the row and removes it in one transaction and
// returns what was read.
func (s *SQLite) DeleteStudentByID(id int64) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.Db.Begin()
	if err != nil {
		return types.Student{}, errors.Wrap(err, "DeleteStudentByID: begin")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	student, err := scanStudent(tx.QueryRow(selectColumns+" WHERE id = ?", id))
	if err != nil {
		return types.Student{}, lookupError(err, id, "DeleteStudentByID")
	}

	if _, err := tx.Exec("DELETE FROM students WHERE id = ?", id); err != nil {
		return types.Student{}, errors.Wrap(err, "DeleteStudentByID: exec")
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, errors.Wrap(err, "DeleteStudentByID: commit")
	}

	return student, nil
}

// lookupError maps sql.ErrNoRows to storage.ErrNotFound and wraps
// anything else with the calling operation's name.
func lookupError(err error, id int64, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(id)
	}
	return errors.Wrapf(err, "%s: scan", op)
}

func notFound(id int64) error {
	return errors.Wrapf(storage.ErrNotFound, "student %d", id)
}
