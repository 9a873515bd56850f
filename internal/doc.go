// Package internal holds the HTTP core of Sitegear: the App, its request
// Context, the Router handed to modules and the cookie-backed session manager.
//
// Import "github.com/sitegear/sitegear" instead; it re-exports this API.
//
// Modules declare routes by implementing Handler:
//
//	func (m *Module) Routes(r sitegear.Router) {
//	    r.Route("/forms", func(r sitegear.Router) {
//	        r.POST("/{key}", m.submit)
//	        r.GET("/{key}/jump", m.jump)
//	    })
//	}
//
// Handlers return errors instead of writing them. An *HTTPError carries the
// status code; anything else becomes a 500 through the app's ErrorHandler.
//
// A Context is created once per request and shared by every middleware and
// the handler, so the session is loaded at most once. Dirty sessions are saved
// just before the first byte of the response is written.
package internal
