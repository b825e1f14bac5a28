package dto

// CreateRoomRequest is the payload for creating a room.
type CreateRoomRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	Capacity  int      `json:"capacity" validate:"required,min=1,max=2000"`
	Type      string   `json:"type" validate:"required,min=2,max=50"`
	Equipment []string `json:"equipment" validate:"dive,min=1,max=100"`
	Building  string   `json:"building" validate:"required,min=1,max=100"`
}

// UpdateRoomRequest is the payload for updating a room.
type UpdateRoomRequest struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity  *int      `json:"capacity,omitempty" validate:"omitempty,min=1,max=2000"`
	Type      *string   `json:"type,omitempty" validate:"omitempty,min=2,max=50"`
	Equipment *[]string `json:"equipment,omitempty"`
	Building  *string   `json:"building,omitempty" validate:"omitempty,min=1,max=100"`
}
