package api

// =============================================================================
// Request Types
// =============================================================================

// CreateContractRequest is the request body for creating a contract.
type CreateContractRequest struct {
	TemplateType   string            `json:"template_type"`
	Variables      map[string]string `json:"variables"`
	Customizations map[string]string `json:"customizations,omitempty"`
	Language       string            `json:"language,omitempty"`
}

// =============================================================================
// Response Types
// =============================================================================

// ContractInfo describes a generated contract file.
type ContractInfo struct {
	Type        string `json:"type"`
	Recipient   string `json:"recipient"`
	FileURL     string `json:"file_url"`
	GeneratedAt string `json:"generated_at"`
}

// CreateContractResponse is the success envelope for contract creation.
type CreateContractResponse struct {
	Status   string       `json:"status"`
	Contract ContractInfo `json:"contract"`
}

// TemplateInfo describes one available template kind.
type TemplateInfo struct {
	Kind           string   `json:"kind"`
	RequiredFields []string `json:"required_fields"`
	OptionalFields []string `json:"optional_fields,omitempty"`
}

// ListTemplatesResponse lists the available template kinds.
type ListTemplatesResponse struct {
	Templates []TemplateInfo `json:"templates"`
	Total     int            `json:"total"`
}

// ErrorResponse is the error envelope for all failures.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Code          string   `json:"code"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// HealthResponse is the response for health checks.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the response for readiness checks.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
