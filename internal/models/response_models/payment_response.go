package response_models

type SessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
