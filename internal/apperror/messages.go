package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Circuit breaker
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",

	// Scanner pipeline
	CodeFetchFailure:      "Venue fetch failed",
	CodeEmptySnapshot:     "Symbol map snapshot is empty",
	CodeEmptyOrderBook:    "Order book fetch failed or returned an empty side",
	CodeInsufficientDepth: "Order book depth insufficient for requested notional",
	CodeSpreadVanished:    "Net spread after fees fell below target",
	CodeWorkerCrash:       "Pipeline worker crashed",
	CodeInvalidQuote:      "Quote failed validation",
	CodeUnsupportedVenue:  "No adapter registered for venue",
	CodeStoreUnavailable:  "Persistent store unavailable",
}
