// Package forms serves multi-step forms whose progress lives in the
// visitor's session.
//
// A form is found by key: registered definition paths, a Generator or a
// prebuilt *form.Form take precedence; otherwise the first of
// <site-root>/<directory>/<key>.{json,yaml,yml,toml} is loaded. Definitions
// may reference {{ config:key }}, {{ engine-config:key }} and
// {{ data:field }} tokens.
//
// Each form keeps four session partitions under forms.<key>:
// current-step, available-steps, values and errors. Submit drives the state
// machine: back, validate and forward, run processors, collapse history
// after a one-way step, and finally reset and redirect to the target URL.
//
//	m := forms.New(eng)
//	_ = eng.Register(m)
//	app := sitegear.New(sitegear.WithSession(store), sitegear.WithHandlers(m))
package forms
