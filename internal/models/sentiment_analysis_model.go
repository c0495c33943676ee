package models

// AnalyzeRequest is the body of POST /analyze. Text is a pointer so a
// missing field and an explicit null can both be read as "".
type AnalyzeRequest struct {
	Text *string `json:"text"`
}

func (r AnalyzeRequest) TextOrEmpty() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}

type AnalyzeResponse struct {
	Sentiment float64 `json:"sentiment"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
