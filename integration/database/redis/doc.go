// Package redis provides Redis client initialization and health checking
// for the non-locking session store backend.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Connect validates the URL, retries transient failures with linear
// backoff, and pings the server before handing the client out.
package redis
