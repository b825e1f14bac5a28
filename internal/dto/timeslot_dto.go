package dto

// CreateTimeSlotRequest is the payload for creating a time slot
// template. Kind must be one of lecture, lab, break, lunch. Days must
// be weekday names; at least one is required.
type CreateTimeSlotRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	StartTime string   `json:"startTime" validate:"required,len=5"`
	EndTime   string   `json:"endTime" validate:"required,len=5"`
	Duration  int      `json:"duration" validate:"required,min=5,max=480"`
	Kind      string   `json:"kind" validate:"required,oneof=lecture lab break lunch"`
	Days      []string `json:"days" validate:"required,min=1,dive,min=1"`
}

// UpdateTimeSlotRequest is the payload for updating a time slot template.
type UpdateTimeSlotRequest struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	StartTime *string   `json:"startTime,omitempty" validate:"omitempty,len=5"`
	EndTime   *string   `json:"endTime,omitempty" validate:"omitempty,len=5"`
	Duration  *int      `json:"duration,omitempty" validate:"omitempty,min=5,max=480"`
	Kind      *string   `json:"kind,omitempty" validate:"omitempty,oneof=lecture lab break lunch"`
	Days      *[]string `json:"days,omitempty" validate:"omitempty,min=1"`
}
