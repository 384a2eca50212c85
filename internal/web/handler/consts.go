package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPrefix is the path all versioned resource routers are mounted under.
	APIPrefix = "/api/v1"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
