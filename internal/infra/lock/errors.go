package lock

import "errors"

var (
	// ErrLockNotAcquired возвращается, если блокировку дня не удалось получить за время ожидания
	ErrLockNotAcquired = errors.New("lock: day lock not acquired")

	// ErrLockBackend возвращается при ошибке обращения к redis
	ErrLockBackend = errors.New("lock: backend error")
)
