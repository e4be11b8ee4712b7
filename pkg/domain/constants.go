package domain

// Description letters for head movement, as written in machine descriptions.
const (
	LetterLeft  = 'G'
	LetterStay  = 'S'
	LetterRight = 'D'
)

// HeaderLines is the number of state lines preceding the transitions in a description.
const HeaderLines = 3
