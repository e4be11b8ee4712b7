/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing turing machines.

It allows developers to define machines using a fluent builder pattern instead of
writing description files by hand. This is particularly useful for generated machines,
unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	b := dsl.New("increment").
		Start("right").
		Accept("done").
		Reject("fail")

	b.State("right").
		Read('0').Right().To("right").
		Read('1').Right().To("right").
		Read(0).Left().To("carry")

	b.State("carry").
		Read('1').Write('0').Left().To("carry").
		Read('0').Write('1').To("done").
		Read(0).Write('1').To("done")

	m, err := b.Build()            // *domain.Machine
	src, err := b.Source()         // ports.LineSource for turing.Engine.Run
*/
package dsl
