/*
Package turing is a single-tape, deterministic Turing machine engine.

A machine is described in a small line-oriented text format: the initial,
accept and reject states on the first three lines, followed by one transition
per line written as

	(FROM,READ)->(TO,WRITE,DIR)

where DIR is G (left), S (stay) or D (right). The engine parses the
description into an ordered transition table and runs it against an input
string on an unbounded two-directional tape until the machine accepts,
rejects or gets stuck (no rule for the current state and symbol).

# Halting

A run returns only when the machine halts, unless a step bound
(WithMaxSteps) or a cancellable context is supplied. Whether an arbitrary
machine halts is undecidable; the bound is the caller's tool to keep runs
observable.

# Usage

	eng := turing.New(turing.WithBlank('_'), turing.WithMaxSteps(1_000_000))

	result, err := eng.RunFile(ctx, "increment.tm", "1011")
	if err != nil {
		// *domain.ParseError, domain.ErrStuck, domain.ErrStepLimit, ...
		log.Fatal(err)
	}
	fmt.Println(result.Status, result.Output)

The Engine can also persist every run through a ports.ResultStore (file,
memory or Redis adapters) and emit lifecycle hooks for metrics and auditing.
*/
package turing
