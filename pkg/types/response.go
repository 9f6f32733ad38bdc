package types

type SuccessEnvelope struct {
	Data any  `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta describes the dataset a response was computed from.
type Meta struct {
	DatasetVersion string `json:"dataset_version,omitempty"`
	Count          *int   `json:"count,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
