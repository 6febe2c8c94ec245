package markdown

import (
	"errors"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

var (
	// ErrEmptyInput reports an empty document, block or inline text.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnbalancedDelimiter reports an inline delimiter without its closing pair.
	ErrUnbalancedDelimiter = errors.New("unbalanced delimiter")
	// ErrInvalidBlockShape reports a block whose content does not match its kind.
	// Classification and building disagree when this happens; it is a bug, not bad input.
	ErrInvalidBlockShape = errors.New("invalid block shape")
	// ErrInvalidStyle reports a style or delimiter used outside its table.
	ErrInvalidStyle = errors.New("invalid style")
)

func emptyInputError(what string) error {
	return ferrors.WrapError(ErrEmptyInput, ferrors.CategoryValidation, what+" can't be empty").
		Fatal().
		UserAction().
		Build()
}

func unbalancedError(d Delimiter, text string) error {
	return ferrors.WrapError(ErrUnbalancedDelimiter, ferrors.CategoryMarkdown, "unclosed delimiter "+d.Marker).
		Fatal().
		UserAction().
		WithContext("delimiter", d.Marker).
		WithContext("text", text).
		Build()
}

func blockShapeError(kind BlockKind, reason string) error {
	return ferrors.WrapError(ErrInvalidBlockShape, ferrors.CategoryInternal, reason).
		Fatal().
		WithContext("kind", kind.String()).
		Build()
}

func invalidStyleError(message string, style Style) error {
	return ferrors.WrapError(ErrInvalidStyle, ferrors.CategoryInternal, message).
		Fatal().
		WithContext("style", style.String()).
		Build()
}
