package plan

type CreatePlanRequest struct {
	Name             string   `json:"name" binding:"required"`
	Slug             string   `json:"slug" binding:"required"`
	Description      string   `json:"description"`
	Price            int64    `json:"price" binding:"min=0"`
	Interval         string   `json:"interval" binding:"required"`
	TargetTenantType string   `json:"target_tenant_type"`
	Features         []string `json:"features"`
	Limits           Limits   `json:"limits"`
}

type UpdatePlanRequest struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	Price            *int64   `json:"price"`
	TargetTenantType *string  `json:"target_tenant_type"`
	Features         []string `json:"features"`
	Limits           *Limits  `json:"limits"`
}
