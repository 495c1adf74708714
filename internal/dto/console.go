package dto

// UpdateFieldRequest changes one field of the open form draft. Value keeps
// its JSON type; the page converts it.
type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// PageQuery is the query string of a page view.
type PageQuery struct {
	Search *string `form:"q"`
}

// PageErrorResponse reports a failed page action together with the page state
// after the failure, so the client can re-render without another request.
type PageErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	View  any    `json:"view"`
}

// AttachmentResponse carries a temporary download link.
type AttachmentResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresInSeconds"`
}
