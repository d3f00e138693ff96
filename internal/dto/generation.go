package dto

// GenerateRequest starts one asynchronous generation. UserID comes from the
// auth middleware upstream; it is bound here because auth itself is outside
// this service.
type GenerateRequest struct {
	UserID       uint     `json:"user_id" validate:"required"`
	ProjectID    *uint    `json:"project_id"`
	ResourceType string   `json:"resource_type" validate:"required,oneof=article outline image"`
	Topic        string   `json:"topic" validate:"required,max=500"`
	Keywords     []string `json:"keywords" validate:"max=20"`
	Tone         string   `json:"tone" validate:"max=50"`
}

// GenerateResponse is returned immediately; the client polls the task id.
type GenerateResponse struct {
	TaskID     string `json:"task_id"`
	ResourceID uint   `json:"resource_id"`
}

// AIGenerationResult is what the AI adapter resolves to on success.
type AIGenerationResult struct {
	Content    string `json:"content,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
}

// ImageAPIResponse mirrors the image generation HTTP API payload.
type ImageAPIResponse struct {
	Predictions []struct {
		URL          string `json:"url"`
		BytesBase64  string `json:"bytesBase64Encoded"`
		MimeType     string `json:"mimeType"`
		SafetyRating string `json:"safetyRating"`
	} `json:"predictions"`
}

// AlertListResponse is one row of the operator alert feed.
type AlertListResponse struct {
	ID           uint   `json:"id"`
	AlertType    string `json:"alert_type"`
	Severity     string `json:"severity"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	ResourceType string `json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	IsRead       bool   `json:"is_read"`
	IsResolved   bool   `json:"is_resolved"`
	CreatedAt    string `json:"created_at"`
}
