package dto

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=150"`
	Code        string  `json:"code" validate:"required,min=2,max=20"`
	Credits     int     `json:"credits" validate:"required,min=1,max=10"`
	Department  string  `json:"department" validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateCourseRequest is the payload for updating a course. All fields
// are optional; only provided fields are changed.
type UpdateCourseRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Code        *string `json:"code,omitempty" validate:"omitempty,min=2,max=20"`
	Credits     *int    `json:"credits,omitempty" validate:"omitempty,min=1,max=10"`
	Department  *string `json:"department,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
