package contract

type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	TrackID string `json:"x_track_id,omitempty"`
	Result  any    `json:"result,omitempty"`
}
