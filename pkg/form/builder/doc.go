// Package builder turns declarative form definitions into form.Form graphs.
//
// A definition is a map decoded from JSON, YAML or TOML. Field types,
// constraints and conditions are looked up by name in a [Registry] of
// namespaces. Names are written in dash-case in definitions and resolved
// to StudlyCaps registry keys, so "not-blank" finds the "NotBlank" factory.
// A definition may pin a namespace with "class": "namespace:Name".
//
//	reg := builder.NewRegistry()
//	reg.RegisterConstraint("acme", "post-code", newPostCode)
//	reg.SetSearchOrder(builder.KindConstraint, "acme", builder.DefaultNamespace)
//
//	b := builder.New(reg, builder.WithProcessors(engine))
//	f, err := b.Build(definition, values, errs)
package builder
