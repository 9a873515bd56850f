// Package htmx detects requests issued by HTMX and answers redirects in a
// way HTMX follows.
//
// A form step posted with hx-post would otherwise swap the redirect target
// into the form element. RedirectWithStatus sets HX-Redirect instead:
//
//	if err := c.Redirect(http.StatusSeeOther, "/thanks"); err != nil {
//		return err
//	}
//
// Context.Redirect calls RedirectWithStatus, so handlers need no special
// casing.
package htmx
