package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so stores depend on a local type
type Client interface {
	redis.UniversalClient
}

// Nil is returned by Redis when a key does not exist
const Nil = redis.Nil

// TxFailedErr is returned when a watched key changed before EXEC
var TxFailedErr = redis.TxFailedErr
