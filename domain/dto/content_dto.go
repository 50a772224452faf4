package dto

// GenerateContentRequest is the body of POST /generate-content and of the
// upstream generator call.
type GenerateContentRequest struct {
	Prompt   string `json:"prompt"   binding:"required"`
	Language string `json:"language"`
}

type GenerateContentResponse struct {
	GeneratedText string `json:"generatedText"`
}
