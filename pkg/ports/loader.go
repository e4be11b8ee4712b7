package ports

// LineSource supplies the lines of a machine description on demand.
// A line ends at '\n' (a trailing '\r' is not part of the line); a non-empty
// final line without a terminator still counts as a line.
// Implementations wrap read failures with domain.ErrIO.
type LineSource interface {
	// LineLength returns the number of bytes until the next line terminator,
	// without moving the current position.
	LineLength() (int, error)

	// ReadLine consumes the next line and returns at most maxLen bytes of it.
	// Reading past the last line fails with an error wrapping io.EOF.
	ReadLine(maxLen int) (string, error)

	// LineCount returns the total number of lines in the source, without
	// moving the current position.
	LineCount() (int, error)
}
