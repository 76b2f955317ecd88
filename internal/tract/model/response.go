package model

type UpdateTractResponse struct {
	Success             bool   `json:"success"`
	Message             string `json:"message,omitempty"`
	CoordinatorAssigned bool   `json:"coordinatorAssigned"`
}

type CoordinatorResponse struct {
	Coordinator *string `json:"coordinator"`
}

type TractDataResponse struct {
	TractData *TractMetrics `json:"tractData"`
}
