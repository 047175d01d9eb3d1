package response

import "github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/apperror"

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	ErrorKind  string      `json:"error_kind,omitempty"` // machine-readable taxonomy kind
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// FromError maps a workflow error to its response, carrying the taxonomy kind
// so clients can branch without parsing messages.
func FromError(err error) (int, Response) {
	status := apperror.HTTPStatus(err)
	return status, Response{
		Status:     "error",
		StatusCode: status,
		Error:      err.Error(),
		ErrorKind:  apperror.KindOf(err),
	}
}
