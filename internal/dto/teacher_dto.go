package dto

// CreateTeacherRequest is the payload for creating a teacher.
// Availability holds weekday names; an empty list is allowed and means
// the teacher cannot be scheduled.
type CreateTeacherRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=150"`
	Email        *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string  `json:"phone,omitempty" validate:"omitempty,max=30"`
	Department   string   `json:"department" validate:"required,min=2,max=100"`
	Subjects     []string `json:"subjects" validate:"dive,min=1,max=150"`
	Availability []string `json:"availability" validate:"dive,min=1"`
}

// UpdateTeacherRequest is the payload for updating a teacher. Nil slice
// fields are left unchanged; an explicit empty slice clears the set.
type UpdateTeacherRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Email        *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string   `json:"phone,omitempty" validate:"omitempty,max=30"`
	Department   *string   `json:"department,omitempty" validate:"omitempty,min=2,max=100"`
	Subjects     *[]string `json:"subjects,omitempty"`
	Availability *[]string `json:"availability,omitempty"`
}
