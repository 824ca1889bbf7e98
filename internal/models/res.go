package models

type ApiResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Code      ErrorCode `json:"code,omitempty"`
	RequestID any       `json:"request_id,omitempty"`
}

func SuccessResponse(data any, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(appErr *AppError) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
	}
}
