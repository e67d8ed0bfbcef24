package errors

// WrapWithType wraps an error with a specific error type
func WrapWithType(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		Err:        err,
		Retryable:  IsTransient(errType),
		StatusCode: StatusFor(errType),
	}
}

// WrapValidation wraps a validation error
func WrapValidation(err error, code, message string) *AppError {
	return WrapWithType(err, ErrorTypeValidation, code, message)
}

// WrapNotFound wraps a not found error
func WrapNotFound(err error, code, message string) *AppError {
	return WrapWithType(err, ErrorTypeNotFound, code, message)
}

// WrapInternal wraps an internal error
func WrapInternal(err error, message string) *AppError {
	return WrapWithType(err, ErrorTypeInternal, "INTERNAL_ERROR", message)
}

// IsTransient determines if an error type is transient
func IsTransient(errType ErrorType) bool {
	switch errType {
	case ErrorTypeTransient, ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeExternal:
		return true
	default:
		return false
	}
}
