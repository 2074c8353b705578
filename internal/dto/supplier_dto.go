package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateSupplierRequest struct {
	Name       string  `json:"name"       validate:"required,min=2"`
	TypePerson string  `json:"typePerson" validate:"required,oneof=FISICA JURIDICA"`
	Document   string  `json:"document"   validate:"required,min=11,max=14"`
	Pix        *string `json:"pix"        validate:"omitempty,max=80"`
	Email      *string `json:"email"      validate:"omitempty,email"`
}

type UpdateSupplierRequest struct {
	Name       string  `json:"name"       validate:"omitempty,min=2"`
	TypePerson string  `json:"typePerson" validate:"omitempty,oneof=FISICA JURIDICA"`
	Pix        *string `json:"pix"        validate:"omitempty,max=80"`
	Email      *string `json:"email"      validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SupplierResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	TypePerson string  `json:"typePerson"`
	Document   string  `json:"document"`
	Pix        *string `json:"pix"`
	Email      *string `json:"email"`
}
