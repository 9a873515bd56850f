// Package redis opens the go-redis client used for remote sessions and the
// form definition cache.
//
//	client, err := redis.Open(ctx, redis.Config{URL: "redis://localhost:6379/0"})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Both redis:// and rediss:// (TLS) URLs are accepted. Open pings the server,
// retrying with a linear backoff, so a client it returns is known to be reachable.
package redis
