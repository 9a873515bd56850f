// Package engine ties Sitegear modules together.
//
// An Engine owns the site configuration (viper) and an ordered list of
// modules. Modules opt into behaviour by implementing small interfaces:
// Starter and Stopper for lifecycle, ProcessorProvider to expose form
// processors addressed as "module:method", and OptionProvider to feed select
// options addressed as "module.source". The engine itself satisfies the form
// builder's ProcessorResolver and OptionSource, so a builder can be wired
// straight to it:
//
//	e := engine.New(cfg, engine.WithLogger(log))
//	_ = e.Register(mail.New(sender), iso.New())
//	b := builder.New(nil, builder.WithProcessors(e), builder.WithOptionSource(e))
//
// Page messages are one-shot notices queued in the visitor's session under
// PageMessagesKey and drained by the next page view.
package engine
