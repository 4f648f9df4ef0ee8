package dto

import "net/http"

// Response is the envelope every endpoint answers with
type Response struct {
	StatusCode   int    `json:"statusCode"`
	Data         any    `json:"data,omitempty"`
	MessageError string `json:"messageError,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(statusCode int, data any) Response {
	return Response{
		StatusCode: statusCode,
		Data:       data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(statusCode int, message string) Response {
	return Response{
		StatusCode:   statusCode,
		MessageError: message,
	}
}

// NewPartialResponse reports a committed mutation whose follow-up failed.
// The data is still returned alongside the error message.
func NewPartialResponse(data any, message string) Response {
	return Response{
		StatusCode:   http.StatusInternalServerError,
		Data:         data,
		MessageError: message,
	}
}

// ListRequest represents common list/pagination request parameters
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
