package encode

// tokenBudget is the room left for table tokens once the question, [CLS] and
// [SEP] are accounted for.
func (e *Encoder) tokenBudget(questionLen int) int {
	return e.opts.ModelMaxLength - (questionLen + 2)
}

// maxCellTokens scans per-word token caps upward and keeps the largest cap
// whose serialized table cost stays within the budget. ok is false when no
// cap works: with a fixed CellTrimLength the trimmed table must fit whole,
// and without one a cap of zero is no fit at all.
func (e *Encoder) maxCellTokens(tt *TokenizedTable, numColumns, numRows, questionLen int) (int, bool) {
	budget := e.tokenBudget(questionLen)
	_, _, maxTokens := e.boundaries(tt)
	if e.opts.CellTrimLength >= 0 && maxTokens > e.opts.CellTrimLength {
		maxTokens = e.opts.CellTrimLength
	}

	numTokens := 0
	for candidate := 0; candidate <= maxTokens; candidate++ {
		numTokens = candidate
		if len(e.tableValues(tt, numColumns, numRows, candidate+1)) > budget {
			break
		}
	}

	if numTokens < maxTokens {
		if e.opts.CellTrimLength >= 0 {
			// Dynamic narrowing is off once a fixed trim length is set.
			return 0, false
		}
		if numTokens == 0 {
			return 0, false
		}
	}
	return numTokens, true
}

// fit finds the data row count and per-word token cap that let the serialized
// sequence meet the budget, dropping trailing rows one at a time when that is
// allowed.
func (e *Encoder) fit(tt *TokenizedTable, numColumns, numRows, questionLen int) (rows, cellTokens int, err error) {
	for {
		tokens, ok := e.maxCellTokens(tt, numColumns, numRows, questionLen)
		if ok {
			return numRows, tokens, nil
		}
		if !e.opts.DropRowsToFit || numRows == 0 {
			return 0, 0, ErrSequenceTooLong
		}
		numRows--
	}
}
