// Package student contains all HTTP handlers for the Student resource.
//
// Each exported function is a factory: it receives the storage once at
// startup and returns the http.HandlerFunc that runs on every request.
//
//	router.HandleFunc("POST /students", student.New(storage))
//
// Register wires all five routes onto a ServeMux in one call.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-inmem/internal/storage"
	"github.com/aanand-mishra/students-inmem/internal/types"
	"github.com/aanand-mishra/students-inmem/internal/utils/response"
)

// validate caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json keys ("first_name") rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Register installs the student routes on mux.
//
// Route table:
//
//	POST   /students        → create a new student
//	GET    /students        → list all students
//	GET    /students/{id}   → get one student by ID
//	PUT    /students/{id}   → replace a student
//	DELETE /students/{id}   → delete a student
func Register(mux *http.ServeMux, s storage.Storage) {
	mux.HandleFunc("POST /students", New(s))
	mux.HandleFunc("GET /students", GetList(s))
	mux.HandleFunc("GET /students/{id}", GetByID(s))
	mux.HandleFunc("PUT /students/{id}", Update(s))
	mux.HandleFunc("DELETE /students/{id}", Delete(s))
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
//
// Request body (JSON), every key required:
//
//	{ "first_name": "Ada", "last_name": "Lovelace", "department": "Math",
//	  "is_graduated": true, "age": 36 }
//
// Success response (200 OK): the stored student, including its new "id".
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or a missing field
//	500 Internal     — storage failure
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		in, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		student, err := storage.CreateStudent(in)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			writeStorageError(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := storage.GetStudentByID(id)
		if err != nil {
			slog.Error("error getting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeStorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /students. It always answers with a JSON array,
// [] when the store is empty.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			writeStorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Replaces every field except the id. Same body rules as New.
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, malformed JSON, missing field
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		in, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		updated, err := storage.UpdateStudentByID(id, in)
		if err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeStorageError(w, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /students/{id} and answers with the removed
// student as it was just before deletion.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		deleted, err := storage.DeleteStudentByID(id)
		if err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeStorageError(w, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, deleted)
	}
}

// pathID parses the {id} path segment. On failure it has already written
// a 400 and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decodeStudent reads and validates a StudentRequest body. On failure it
// has already written a 400 and returns false.
func decodeStudent(w http.ResponseWriter, r *http.Request) (types.StudentInput, bool) {
	var req types.StudentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return types.StudentInput{}, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.StudentInput{}, false
	}

	if err := validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return types.StudentInput{}, false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.StudentInput{}, false
	}

	return req.Input(), true
}

// writeStorageError maps storage.ErrNotFound to 404 and everything else
// to 500.
func writeStorageError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
	}
	response.WriteJSON(w, status, response.GeneralError(err))
}
