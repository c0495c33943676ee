package models

// Wire shape spoken by remote scorers. It matches /analyze so one instance
// can delegate to another.
type (
	RemoteScoreRequest struct {
		Text string `json:"text"`
	}
	RemoteScoreResponse struct {
		Sentiment *float64 `json:"sentiment"`
	}
)
