package errx

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing key.
	RedisNotFoundMessage = "redis key not found"
)

// WrapRedis maps Redis errors onto the storage failure kind.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return New(KindStorage, err, RedisNotFoundMessage)
	}
	return New(KindStorage, err, RedisErrorMessage)
}
