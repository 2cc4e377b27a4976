package contexthelpers

type contextKey int

const (
	currentPathContextKey contextKey = iota
	csrfTokenContextKey
	cspNonceContextKey
	requestIDContextKey
)
