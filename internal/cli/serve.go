package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiltmaze/internal/api"
	"github.com/matzehuels/tiltmaze/pkg/cache"
	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/pipeline"
	"github.com/matzehuels/tiltmaze/pkg/store"
)

// Environment variables read by serve.
const (
	envRedisAddr = "TILTMAZE_REDIS_ADDR"
	envMongoURI  = "TILTMAZE_MONGO_URI"
)

// Cache backends accepted by serve.
const (
	cacheNone  = "none"
	cacheFile  = "file"
	cacheRedis = "redis"
)

// serveOpts holds the serve command flags.
type serveOpts struct {
	addr      string
	backend   string
	dir       string
	mongoURI  string
	mongoDB   string
	cacheKind string
	redisAddr string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		mongoURI:  envOr(envMongoURI, store.DefaultMongoURI),
		redisAddr: os.Getenv(envRedisAddr),
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the level HTTP API.

Routes:
  GET    /healthz
  POST   /v1/levels                     generate and store a level
  GET    /v1/levels                     list stored levels
  GET    /v1/levels/{id}                level document
  GET    /v1/levels/{id}/render/{fmt}   txt, tree, json, dot, svg, png, pdf
  DELETE /v1/levels/{id}

Levels live in memory by default. Use --store file or --store mongo to keep
them across restarts. Rendered outputs are cached in the local cache
directory, or in Redis with --cache redis.

` + envMongoURI + ` and ` + envRedisAddr + ` set the default Mongo URI and Redis address.`,
		Example: `  tiltmaze serve --addr :8080
  tiltmaze serve --store mongo --cache redis --redis-addr redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.backend, "store", store.BackendMemory, "level store: memory, file, mongo")
	cmd.Flags().StringVar(&opts.dir, "store-dir", "", "file store directory (default: the levels directory)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "MongoDB connection URI")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", store.DefaultMongoDatabase, "MongoDB database")
	cmd.Flags().StringVar(&opts.cacheKind, "cache", cacheFile, "render cache: none, file, redis")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "Redis address or redis:// URL (default localhost:6379)")

	return cmd
}

// runServe wires the store, cache, and runner into the API server.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	s, err := store.Open(ctx, store.Config{
		Backend:  opts.backend,
		Dir:      opts.dir,
		MongoURI: opts.mongoURI,
		Database: opts.mongoDB,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	runner, err := c.serverRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	c.Logger.Info("starting server", "addr", opts.addr, "store", opts.backend, "cache", opts.cacheKind)
	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	return api.New(runner, s, c.Logger).ListenAndServe(ctx, opts.addr)
}

// serverRunner builds the runner for the selected cache backend. Redis keys
// are scoped under the app name since the instance may be shared.
func (c *CLI) serverRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	switch opts.cacheKind {
	case cacheNone:
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	case cacheFile, "":
		return c.newRunner(false)
	case cacheRedis:
		rc, err := cache.NewRedisCache(ctx, opts.redisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, appName+":"), c.Logger), nil
	default:
		return nil, mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration,
			"unknown cache backend %q (must be one of: none, file, redis)", opts.cacheKind)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
