package tenant

type CreateTenantRequest struct {
	Name           string `json:"name" binding:"required"`
	Slug           string `json:"slug"`
	Type           string `json:"type" binding:"required"`
	ContactAddress string `json:"contact_address"`
	ContactPhone   string `json:"contact_phone"`
	ContactEmail   string `json:"contact_email"`
	ContactWebsite string `json:"contact_website"`
}

type UpdateTenantRequest struct {
	Name           *string `json:"name"`
	ContactAddress *string `json:"contact_address"`
	ContactPhone   *string `json:"contact_phone"`
	ContactEmail   *string `json:"contact_email"`
	ContactWebsite *string `json:"contact_website"`
}
