/*
Package observability provides tools for monitoring the turing engine.

Metrics are fed through domain.LifecycleHooks, so any Engine can be
instrumented without changes to the runtime:

	m := observability.NewMetrics()
	m.MustRegister(prometheus.DefaultRegisterer)
	eng := turing.New(turing.WithLifecycleHooks(m.Hooks()))
*/
package observability
