package errx

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to an external-call AppError with an appropriate status code.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return New(ExternalCallError, err, http.StatusNotFound, RedisNotFoundMessage)
	}

	return New(ExternalCallError, err, http.StatusBadGateway, RedisErrorMessage)
}
