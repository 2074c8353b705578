package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateWorkRequest struct {
	Name       string  `json:"name"       validate:"required,min=1,max=60"`
	Code       *string `json:"code"`
	Address    string  `json:"address"    validate:"required,max=255"`
	Contractor *string `json:"contractor" validate:"omitempty,max=50"`
	Status     string  `json:"status"     validate:"omitempty,oneof=Ativa Concluida"`
}

type UpdateWorkRequest struct {
	Name       string  `json:"name"       validate:"omitempty,min=1,max=60"`
	Code       *string `json:"code"`
	Address    string  `json:"address"    validate:"omitempty,max=255"`
	Contractor *string `json:"contractor" validate:"omitempty,max=50"`
	Status     string  `json:"status"     validate:"omitempty,oneof=Ativa Concluida"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type WorkResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Code       *string `json:"code"`
	Address    string  `json:"address"`
	Contractor *string `json:"contractor"`
	Status     string  `json:"status"`
}
