package responder

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error Error `json:"error"`
	Meta  Meta  `json:"meta"`
}

// Error represents the error structure in API responses
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ValidationResponse reports a rejected image to JSON clients.
type ValidationResponse struct {
	Valid        bool     `json:"valid"`
	Warnings     []string `json:"warnings"`
	DetectedMIME string   `json:"detected_mime,omitempty"`
	Meta         *Meta    `json:"meta,omitempty"`
}

// Meta represents metadata in API responses
type Meta struct {
	TraceId string `json:"traceId,omitempty"`
	Took    int64  `json:"took,omitempty"`
}
