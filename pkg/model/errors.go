package model

// ErrorBody is the payload the backend sends with non-2xx responses.
type ErrorBody struct {
	Error string `json:"error"`
}
