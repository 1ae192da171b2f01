package template

type CreateTemplateRequest struct {
	Name             string   `json:"name" binding:"required"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	TargetTenantType string   `json:"targetTenantType" binding:"required"`
	DemoURL          string   `json:"demoUrl"`
	DefaultColors    *Colors  `json:"defaultColors"`
	Features         []string `json:"features"`
	IsDefault        bool     `json:"isDefault"`
	IsPremium        bool     `json:"isPremium"`
}

type UpdateTemplateRequest struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	TargetTenantType *string   `json:"targetTenantType"`
	DemoURL          *string   `json:"demoUrl"`
	DefaultColors    *Colors   `json:"defaultColors"`
	Features         *[]string `json:"features"`
	IsDefault        *bool     `json:"isDefault"`
	IsPremium        *bool     `json:"isPremium"`
}

// ThemeView is the resolved theme for a public tenant site: the settings row
// plus the template it points at, if any.
type ThemeView struct {
	Theme    *ThemeSettings `json:"theme"`
	Template *Template      `json:"template,omitempty"`
}

// SaveThemeRequest upserts the caller tenant's theme settings row.
type SaveThemeRequest struct {
	TemplateID      *int64  `json:"templateId"`
	Colors          *Colors `json:"colors"`
	LogoURL         *string `json:"logoUrl"`
	CustomCSS       *string `json:"customCss"`
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
}
