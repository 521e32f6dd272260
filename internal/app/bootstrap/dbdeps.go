// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/kairo/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	KairoMongoClient   *mongo.Client
	KairoMongoDatabase *mongo.Database

	// LoginLimiter is in-process state shared by every login request;
	// it lives here so Shutdown can stop its cleanup loops.
	LoginLimiter *ratelimit.LoginLimiter
}
