package common

import "errors"

// Общие ошибки для всех репозиториев
var (
	ErrNotFound = errors.New("entity not found")
	// ErrStatusConflict статус записи изменился между чтением и обновлением.
	ErrStatusConflict = errors.New("status changed concurrently")
)
