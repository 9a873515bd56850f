// Package sitegear is the HTTP facade of the Sitegear site engine.
//
// An App wraps a chi router. Modules contribute routes by implementing
// [Handler], handlers receive a [Context] and return errors instead of
// writing them:
//
//	func (m *Module) Routes(r sitegear.Router) {
//	    r.Route("/forms", func(r sitegear.Router) {
//	        r.POST("/{key}", m.submit)
//	        r.GET("/{key}/jump", m.jump)
//	    })
//	}
//
//	func (m *Module) jump(c sitegear.Context) error {
//	    step, ok, err := sitegear.QueryValue[int](c, "step")
//	    if err != nil {
//	        return sitegear.ErrBadRequest("invalid step", sitegear.WithError(err))
//	    }
//	    ...
//	}
//
// # Sessions
//
// [WithSession] enables server-side sessions keyed by the "__sid" cookie.
// [Context.Session] creates a session on first use; changes are saved just
// before the response is written.
//
// # Errors
//
// A returned [*HTTPError] is rendered as JSON with its status. Other errors
// are logged and answered with 500. Replace the renderer with
// [WithErrorHandler].
//
// # Running
//
// [App.Run] serves until SIGINT or SIGTERM, then drains requests and runs
// shutdown hooks within the shutdown timeout.
package sitegear
