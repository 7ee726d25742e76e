package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	//一意制約違反（同一商品の二重追加など）
	ErrDuplicate = errors.New("duplicate")
)
