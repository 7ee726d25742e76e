package usecase

import (
	"errors"
	"fmt"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// カートへの二重追加（409）。
// エラーだがサーバー側の正となるカートを同梱して返す。
// クライアントはこのスナップショットをそのまま採用する。
type CartConflictError struct {
	Message string
	Cart    CartResponse
}

func (e *CartConflictError) Error() string {
	return e.Message
}

func AsCartConflict(err error) (*CartConflictError, bool) {
	var ce *CartConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}

// お気に入りへの二重追加（409）。
type WishlistConflictError struct {
	Message string
	Items   []WishlistItemResponse
}

func (e *WishlistConflictError) Error() string {
	return e.Message
}

func AsWishlistConflict(err error) (*WishlistConflictError, bool) {
	var we *WishlistConflictError
	ok := errors.As(err, &we)
	return we, ok
}
