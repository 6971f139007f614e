package bloodwork

// Processing error types.
const (
	ErrTypeTable     = "table_extraction_error"
	ErrTypeText      = "text_extraction_error"
	ErrTypeOCR       = "ocr_error"
	ErrTypeExhausted = "extraction_failed"
)

// ProcessingError is the structured failure of an extraction attempt.
// Details carries diagnostics such as the detected PDF type, the methods
// attempted, and each method's error, so callers can tell "no tests
// present" apart from "extraction broken".
type ProcessingError struct {
	Message   string         `json:"message"`
	ErrorType string         `json:"error_type"`
	Details   map[string]any `json:"details,omitempty"`
}

func (e *ProcessingError) Error() string {
	return e.Message
}

func newProcessingError(message, errorType string, details map[string]any) *ProcessingError {
	return &ProcessingError{Message: message, ErrorType: errorType, Details: details}
}
