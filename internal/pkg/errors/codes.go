package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		KindValidation,
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		KindValidation,
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrAddressRequired = New(
		KindValidation,
		"ADDRESS_REQUIRED",
		"Please enter an address",
		http.StatusBadRequest,
	)

	ErrInvalidReportingMode = New(
		KindValidation,
		"INVALID_REPORTING_MODE",
		"Invalid reporting mode",
		http.StatusBadRequest,
	)

	ErrInvalidStatus = New(
		KindValidation,
		"INVALID_STATUS",
		"Invalid report status",
		http.StatusBadRequest,
	)

	ErrUnknownZone = New(
		KindValidation,
		"UNKNOWN_ZONE",
		"Zone is not configured",
		http.StatusBadRequest,
	)

	ErrFlowNotFound = New(
		KindNotFound,
		"FLOW_NOT_FOUND",
		"Report flow not found or expired",
		http.StatusNotFound,
	)

	ErrReportNotFound = New(
		KindNotFound,
		"REPORT_NOT_FOUND",
		"Report not found",
		http.StatusNotFound,
	)

	ErrInvalidTransition = New(
		KindValidation,
		"INVALID_TRANSITION",
		"Action is not allowed in the current step",
		http.StatusConflict,
	)

	ErrPhotoRequired = New(
		KindValidation,
		"PHOTO_REQUIRED",
		"A photo is required before this step",
		http.StatusBadRequest,
	)

	ErrNoConnection = New(
		KindNetwork,
		"NO_CONNECTION",
		"No internet connection detected. Please check your WiFi or mobile data and try again.",
		http.StatusServiceUnavailable,
	)

	ErrUnauthorized = New(
		KindAuth,
		"UNAUTHORIZED",
		"Authentication required",
		http.StatusUnauthorized,
	)

	ErrForbidden = New(
		KindAuth,
		"FORBIDDEN",
		"Operation not permitted for this role",
		http.StatusForbidden,
	)

	ErrClassifierFailed = New(
		KindCollaborator,
		"CLASSIFIER_FAILED",
		"AI detection failed to process image",
		http.StatusBadGateway,
	)

	ErrUploadFailed = New(
		KindCollaborator,
		"UPLOAD_FAILED",
		"Photo upload failed",
		http.StatusBadGateway,
	)

	ErrGeocoderFailed = New(
		KindCollaborator,
		"GEOCODER_FAILED",
		"Failed to resolve address for coordinates",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		KindInternal,
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		KindInternal,
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
