package htmx

const (
	HeaderHXRedirect = "HX-Redirect"
	HeaderHXRequest  = "HX-Request"
)
