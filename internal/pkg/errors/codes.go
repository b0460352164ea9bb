package errors

const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeUpstreamError  = "UPSTREAM_ERROR"
	CodeInternalServer = "INTERNAL_SERVER_ERROR"
	CodeNotFound       = "NOT_FOUND"
)

var (
	ErrQueryTooShort = NewValidation("query must be at least 3 characters long")

	ErrInvalidLocation = NewValidation("location must be a \"lat,lng\" pair")

	ErrPlaceIDRequired = NewValidation("place_id is required")

	ErrAddressRequired = NewValidation("address is required")
)
