package model

type CoordinatorPayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type UpdateTractRequest struct {
	TractID        string              `json:"tractId" validate:"required"`
	DiscipleMakers *int                `json:"discipleMakers" validate:"required,min=0"`
	SimpleChurches *int                `json:"simpleChurches" validate:"required,min=0"`
	LegacyChurches *int                `json:"legacyChurches" validate:"required,min=0"`
	Coordinator    *CoordinatorPayload `json:"coordinator" validate:"omitempty"`
}

type AssignCountyCoordinatorRequest struct {
	Countyfp string `json:"countyfp" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}
