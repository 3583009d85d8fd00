package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories accept single node and
// cluster clients alike
type Client interface {
	redis.UniversalClient
}

var (
	// Nil is returned by reads of a missing key
	Nil = redis.Nil
	// TxFailedErr is returned when a watched key changed before EXEC
	TxFailedErr = redis.TxFailedErr
)
