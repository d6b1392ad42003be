package encode

import "errors"

var (
	// ErrTooManyColumns means the table has at least as many columns as the
	// column id cap.
	ErrTooManyColumns = errors.New("too many columns")
	// ErrTooManyRows means the table has at least as many rows as the row id
	// cap and row dropping is disabled.
	ErrTooManyRows = errors.New("too many rows")
	// ErrSequenceTooLong means the question and table cannot fit the token
	// budget, even after dropping rows when that is allowed.
	ErrSequenceTooLong = errors.New("sequence too long")
	// ErrAnswerPair means answer coordinates and answer texts were not
	// supplied together across the batch.
	ErrAnswerPair = errors.New("answer coordinates and answer texts must be provided together")
	// ErrAnswerNotFound means some answer coordinates matched no serialized
	// token, usually because the fitter pruned the cell.
	ErrAnswerNotFound = errors.New("could not find all answers")
	// ErrUnsupportedOption rejects option flags the encoder does not honor.
	ErrUnsupportedOption = errors.New("unsupported option")
)
