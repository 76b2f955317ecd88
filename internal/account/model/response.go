package model

type LoginResponse struct {
	Token             string  `json:"token"`
	MustResetPassword bool    `json:"mustResetPassword"`
	Role              string  `json:"role"`
	Countyfp          *string `json:"countyfp"`
	Tractid           *string `json:"tractid"`
	Email             string  `json:"email"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
