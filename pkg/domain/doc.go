/*
Package domain contains the core domain models of the Turing machine engine.

It defines the structure of a machine description (Transitions, the ordered
Table and the Machine holding the distinguished states) and the outcome of a
run (Status and Result). This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Transition: One rule mapping (state, read symbol) to (new state, write symbol, move).
  - Table: The ordered rule set; the first matching rule wins.
  - Machine: The loaded description (initial, accept and reject states plus the Table).
  - Result: A snapshot of a finished (or interrupted) run.
*/
package domain
