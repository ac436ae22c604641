package docgo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ConnectOptions contains options for Connect.
type ConnectOptions struct {
	// AppName identifies the application in server logs and profiler output.
	AppName string
	// Compressors enables wire compression, e.g. "snappy", "zlib", "zstd".
	Compressors []string
	// Timeout bounds the initial connectivity check. Zero leaves only
	// ctx's deadline in effect.
	Timeout time.Duration
	// Client customizes the raw driver options before connecting.
	Client func(*options.ClientOptions)
}

// Connect dials a deployment, verifies connectivity with a ping against
// the primary and returns the client. Close it with client.Disconnect.
//
// Connect is a convenience; a client built directly with mongo.Connect
// works just as well with Use.
func Connect(ctx context.Context, uri string, optFns ...func(*ConnectOptions)) (*mongo.Client, error) {
	var opts ConnectOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := mongo.Connect(clientOptions(uri, opts))
	if err != nil {
		return nil, fmt.Errorf("docgo: connect: %w", err)
	}

	pingCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("docgo: ping: %w", err)
	}

	return client, nil
}

// clientOptions assembles the driver options for Connect. Split out so
// the assembly is testable without a deployment.
func clientOptions(uri string, opts ConnectOptions) *options.ClientOptions {
	co := options.Client().ApplyURI(uri)
	if opts.AppName != "" {
		co = co.SetAppName(opts.AppName)
	}
	if len(opts.Compressors) > 0 {
		co = co.SetCompressors(opts.Compressors)
	}
	if opts.Client != nil {
		opts.Client(co)
	}
	return co
}
