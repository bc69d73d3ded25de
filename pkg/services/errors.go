package services

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable 取引ストアからの読み込みに失敗した
	ErrDataUnavailable = errors.New("transaction data unavailable")
	// ErrProductNotFound 商品が存在しない
	ErrProductNotFound = errors.New("product not found")
	// ErrSuggestionNotFound 発注提案が存在しない
	ErrSuggestionNotFound = errors.New("reorder suggestion not found")
	// ErrSuggestionNotPending 状態遷移元が一致しない
	ErrSuggestionNotPending = errors.New("reorder suggestion is not in the expected status")
)

// ValidationError 呼び出し側の契約違反（負の在庫、非正のhorizonなど）
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Msg)
}

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
