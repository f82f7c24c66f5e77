// Package mongo provides MongoDB client initialization and health checking
// for the non-locking session store backend.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Client().Disconnect(ctx)
//
// Retry behavior is tuned for managed clusters (Atlas) where cold starts can
// take several seconds.
package mongo
