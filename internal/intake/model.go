package intake

// CaptureRequest is the showcase-funnel payload. Property details and a
// contact preference are mandatory on this path.
type CaptureRequest struct {
	Name              string `json:"name" validate:"required,min=2,max=100,fullname"`
	Phone             string `json:"phone" validate:"required,uaephone"`
	PropertyRef       string `json:"propertyRef" validate:"required"`
	BudgetRange       string `json:"budgetRange" validate:"required"`
	PropertyType      string `json:"propertyType" validate:"required"`
	ContactPreference string `json:"contactPreference" validate:"required,oneof=whatsapp call email"`
}

// SubmitRequest is the landing-form payload. Only name, phone and the
// property interest are mandatory here.
type SubmitRequest struct {
	FullName         string `json:"fullName" validate:"required,min=2,max=100,fullname"`
	Phone            string `json:"phone" validate:"required,uaephone"`
	Email            string `json:"email" validate:"omitempty,email"`
	PropertyInterest string `json:"propertyInterest" validate:"required"`
	PropertyRef      string `json:"propertyRef" validate:"omitempty"`
	BudgetRange      string `json:"budgetRange" validate:"omitempty"`
	Source           string `json:"source" validate:"omitempty,oneof=website_demo landing_page referral social_media direct"`
	UTMSource        string `json:"utmSource" validate:"omitempty"`
	UTMMedium        string `json:"utmMedium" validate:"omitempty"`
	UTMCampaign      string `json:"utmCampaign" validate:"omitempty"`
	ReferrerURL      string `json:"referrerUrl" validate:"omitempty"`
}

// Metadata is request provenance captured by the HTTP layer.
type Metadata struct {
	UserAgent string
	IPAddress string
}

// Terminal outcomes of one submission.
const (
	OutcomeCreated          = "created"
	OutcomeDuplicate        = "duplicate_returned"
	OutcomeValidationFailed = "validation_failed"
	OutcomeStoreFailed      = "store_failed"
)

// Result is the single object every submission path returns.
type Result struct {
	Success          bool              `json:"success"`
	Outcome          string            `json:"-"`
	LeadID           string            `json:"leadId,omitempty"`
	WhatsAppLink     string            `json:"whatsappLink,omitempty"`
	IsDuplicate      bool              `json:"isDuplicate,omitempty"`
	DuplicateMessage string            `json:"duplicateMessage,omitempty"`
	Error            string            `json:"error,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}
