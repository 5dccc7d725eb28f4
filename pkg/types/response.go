package types

type SuccessEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type ErrorEnvelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}
