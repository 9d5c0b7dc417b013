package apierror

// Error type URIs following the urn:fitlens:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request body validation failed (400)
	TypeValidation = "urn:fitlens:error:validation"

	// TypeInvalidDSL indicates the chart DSL violates its schema contract (400)
	TypeInvalidDSL = "urn:fitlens:error:invalid_dsl"

	// TypeUpstream indicates the record store could not be read (502)
	TypeUpstream = "urn:fitlens:error:upstream"

	// TypeRateLimit indicates too many chart requests (429)
	TypeRateLimit = "urn:fitlens:error:rate_limit"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:fitlens:error:unauthorized"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:fitlens:error:internal"

	// TypeBadRequest indicates a malformed request (400)
	TypeBadRequest = "urn:fitlens:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation   = "Validation Error"
	TitleInvalidDSL   = "Invalid Chart Query"
	TitleUpstream     = "Record Store Unavailable"
	TitleRateLimit    = "Too Many Requests"
	TitleUnauthorized = "Authentication Required"
	TitleInternal     = "Internal Server Error"
	TitleBadRequest   = "Bad Request"
)
