/*
Package ports defines the driven ports (interfaces) for the Turing machine engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to read descriptions from any line-oriented source and to persist run
results in various storage backends.

# Key Interfaces

  - LineSource: Supplies description lines on demand (e.g., from a file or memory).
  - ResultStore: Responsible for persisting and loading run Results.
  - Runner: The execution surface consumed by the HTTP and MCP adapters.
*/
package ports
