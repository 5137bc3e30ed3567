// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// StudentInput is the set of fields a client supplies when creating or
// replacing a student. It carries no ID; the store assigns one.
type StudentInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Department  string `json:"department"`
	IsGraduated bool   `json:"is_graduated"`
	Age         int    `json:"age"`
}

// Student is a stored student record.
//
// ID is assigned by the store on creation and never changes afterwards.
// The remaining fields mirror StudentInput and are overwritten as a whole
// by an update.
type Student struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Department  string `json:"department"`
	IsGraduated bool   `json:"is_graduated"`
	Age         int    `json:"age"`
}

// NewStudent builds a Student from an ID and an input payload.
func NewStudent(id int64, in StudentInput) Student {
	return Student{
		ID:          id,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Department:  in.Department,
		IsGraduated: in.IsGraduated,
		Age:         in.Age,
	}
}

// StudentRequest is the JSON body accepted by POST and PUT.
//
// Every field is a pointer so the validator can tell "absent" apart from
// a zero value: `"is_graduated": false` and `"age": 0` are accepted, a
// missing key is not.
//
//	validate:"required" on a pointer means "must be non-nil".
type StudentRequest struct {
	FirstName   *string `json:"first_name"   validate:"required"`
	LastName    *string `json:"last_name"    validate:"required"`
	Department  *string `json:"department"   validate:"required"`
	IsGraduated *bool   `json:"is_graduated" validate:"required"`
	Age         *int    `json:"age"          validate:"required"`
}

// Input converts a validated request into a StudentInput.
// It must only be called after validation has passed.
func (r StudentRequest) Input() StudentInput {
	return StudentInput{
		FirstName:   *r.FirstName,
		LastName:    *r.LastName,
		Department:  *r.Department,
		IsGraduated: *r.IsGraduated,
		Age:         *r.Age,
	}
}
