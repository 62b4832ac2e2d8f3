package services

import (
	"errors"
	"fmt"
)

// Классификация ошибок сервисного слоя. Хендлеры мапят их на HTTP статусы
// через errors.Is, внутри сервисов конкретика добавляется через fmt.Errorf("%w: ...").
var (
	// ErrValidation - некорректный ввод, не ретраится
	ErrValidation = errors.New("validation error")
	// ErrDataUnavailable - отказ основного хранилища, фатально для запроса
	ErrDataUnavailable = errors.New("data store unavailable")
	// ErrCacheUnavailable - отказ кеша; не фатально, деградируем до чтения из БД
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrAuthRequired - запрос без аутентификации
	ErrAuthRequired = errors.New("authentication required")
)

// ErrCacheDisabled - кеш не сконфигурирован (Redis не поднят). Штатная
// деградация без шума в логах; оборачивает ErrCacheUnavailable, чтобы
// вызывающий код мог не различать эти два случая.
var ErrCacheDisabled = fmt.Errorf("%w: client not configured", ErrCacheUnavailable)
