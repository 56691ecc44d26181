package postal

import "errors"

var (
	ErrUnknownProvider   = errors.New("postal: unknown delivery provider")
	ErrUnknownTaskSystem = errors.New("postal: unknown task system")
	ErrUnknownBroker     = errors.New("postal: unknown broker")
	ErrMissingSecret     = errors.New("postal: secret key is required")
	ErrMissingRedisURL   = errors.New("postal: redis broker requires a redis url")
	ErrInvalidTimezone   = errors.New("postal: invalid timezone")
	ErrPoolRequired      = errors.New("postal: database pool is required")
)
