package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes every JSON endpoint.
	APIPath = RootPath + "api"

	// ClubPath prefixes the tenant scoped endpoints.
	ClubPath = APIPath + "/clubs/:clubId"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
