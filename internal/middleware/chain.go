package middleware

import "net/http"

// Chain applies multiple middleware in order (first to last).
//
// Example:
//
//	handler := Chain(mux,
//	    RequestLogging,       // Executes first
//	    AuthMiddleware(...),  // Executes second
//	    Config(...),          // Executes third
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	// Apply middleware in reverse order so they execute in the order provided
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
