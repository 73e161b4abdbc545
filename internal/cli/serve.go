package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxplan/internal/server"
	"github.com/matzehuels/boxplan/pkg/cache"
	"github.com/matzehuels/boxplan/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API until the
// process is interrupted. The runner and its cache are shared by every
// request.
//
// Default behaviour:
//   - addr: :8080
//   - cache: the local file cache (--cache for Redis or MongoDB)
//   - timeout: server.DefaultRequestTimeout per /v1 request
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		loc     string
		prefix  string
		noCache bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API:

  POST /v1/synthesize  {"plan": ..., "options": ...}
  POST /v1/zones       {"plan": ..., "options": ...}
  GET  /healthz
  GET  /version

Results are cached in the local file cache unless --cache points at a
redis:// or mongodb:// URL. --cache-prefix namespaces keys when several
deployments share one backend. Each /v1 request gets --timeout to finish
and answers 504 TIMEOUT past it; 0 disables the limit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), loc, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			if prefix != "" {
				runner.Keyer = cache.NewScopedKeyer(runner.Keyer, prefix)
			}

			srv := server.New(runner, c.Logger, observability.NewLogHTTPHooks(c.Logger))
			srv.SetRequestTimeout(timeout)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&loc, "cache", "", "cache location: directory, redis:// or mongodb:// URL")
	cmd.Flags().StringVar(&prefix, "cache-prefix", "", "prefix for every cache key")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "deadline for each API request")
	return cmd
}
