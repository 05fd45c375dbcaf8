package constants

// Standard Response Field Keys
const (
	ResponseFieldStatusCode = "statusCode"
	ResponseFieldData       = "data"
	ResponseFieldMessage    = "message"
	ResponseFieldSuccess    = "success"
	ResponseFieldErrors     = "errors"
)

// Response Format Functions
//
// Every endpoint answers with the same envelope so clients never have to
// branch on response shape. Success responses carry the payload under "data";
// error responses carry a nil "data" and an "errors" list.

func BuildSuccessResponse(statusCode int, data any, message string) map[string]any {
	return map[string]any{
		ResponseFieldStatusCode: statusCode,
		ResponseFieldData:       data,
		ResponseFieldMessage:    message,
		ResponseFieldSuccess:    statusCode < 400,
	}
}

func BuildErrorResponse(statusCode int, message string, details []string) map[string]any {
	if details == nil {
		details = []string{}
	}

	return map[string]any{
		ResponseFieldStatusCode: statusCode,
		ResponseFieldData:       nil,
		ResponseFieldMessage:    message,
		ResponseFieldSuccess:    false,
		ResponseFieldErrors:     details,
	}
}
