package encode

import (
	"fmt"

	internal "github.com/ZanzyTHEbar/table-tokenizer/ttok"
)

// Options configures how tables and questions become model features.
type Options struct {
	ModelMaxLength int `mapstructure:"model_max_length"` // Fixed feature length, padding included
	MaxColumnID    int `mapstructure:"max_column_id"`    // Column id cap (0 = ModelMaxLength)
	MaxRowID       int `mapstructure:"max_row_id"`       // Row id cap (0 = ModelMaxLength)
	CellTrimLength int `mapstructure:"cell_trim_length"` // Per-cell token cap (-1 = dynamic)

	DropRowsToFit           bool `mapstructure:"drop_rows_to_fit"`          // Drop trailing rows instead of failing
	StripColumnNames        bool `mapstructure:"strip_column_names"`        // Encode headers as empty cells
	UpdateAnswerCoordinates bool `mapstructure:"update_answer_coordinates"` // Align answers by text match instead of coordinates

	WorkerCount int `mapstructure:"worker_count"` // Batch encoding goroutines (0 = GOMAXPROCS)

	// Passthrough requests carried only so they can be rejected explicitly.
	ReturnOverflowingTokens bool `mapstructure:"return_overflowing_tokens"`
	ReturnSpecialTokensMask bool `mapstructure:"return_special_tokens_mask"`
	ReturnOffsetsMapping    bool `mapstructure:"return_offsets_mapping"`
}

// DefaultOptions returns sensible defaults for table encoding.
func DefaultOptions() Options {
	return Options{
		ModelMaxLength: internal.DefaultModelMaxLength,
		CellTrimLength: -1,
	}
}

// Validate rejects option flags the encoder cannot honor.
func (o Options) Validate() error {
	if o.ReturnOverflowingTokens {
		return fmt.Errorf("%w: overflowing tokens are not returned", ErrUnsupportedOption)
	}
	if o.ReturnSpecialTokensMask {
		return fmt.Errorf("%w: special tokens mask is not returned", ErrUnsupportedOption)
	}
	if o.ReturnOffsetsMapping {
		return fmt.Errorf("%w: offsets mapping is not returned", ErrUnsupportedOption)
	}
	return nil
}

// withDefaults resolves unset limits. Column and row id caps fall back to
// the model max length.
func (o Options) withDefaults() Options {
	if o.ModelMaxLength <= 0 {
		o.ModelMaxLength = internal.DefaultModelMaxLength
	}
	if o.MaxColumnID <= 0 {
		o.MaxColumnID = o.ModelMaxLength
	}
	if o.MaxRowID <= 0 {
		o.MaxRowID = o.ModelMaxLength
	}
	return o
}
