package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/desitranslate/desi/cache"
)

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Move cached translations between Redis and JSON files",
		Long: `Export the translation cache of a Redis server to a JSON file, or import
such a file into Redis, so a new deployment starts with a warm cache.`,
	}
	pf := cmd.PersistentFlags()
	pf.String("redis-url", "", "Redis URL, e.g. redis://localhost:6379/0")
	pf.String("key-prefix", cache.DefaultKeyPrefix, "Redis key prefix")
	pf.Duration("ttl", 0, "TTL for imported entries (0 keeps them forever)")
	_ = c.v.BindPFlag("redis-url", pf.Lookup("redis-url"))
	_ = c.v.BindPFlag("key-prefix", pf.Lookup("key-prefix"))

	cmd.AddCommand(newCacheExportCmd(c), newCacheImportCmd(c), newCacheStatsCmd(c))
	return cmd
}

// redisCache connects to the Redis server named by --redis-url.
func (c *cli) redisCache(cmd *cobra.Command) (*cache.RedisCache, error) {
	url := c.v.GetString("redis-url")
	if url == "" {
		return nil, errors.New("--redis-url is required")
	}
	ttl, err := cmd.Flags().GetDuration("ttl")
	if err != nil {
		return nil, err
	}
	return cache.NewRedisCache(cache.RedisConfig{
		URL:       url,
		TTL:       int(ttl / time.Second),
		KeyPrefix: c.v.GetString("key-prefix"),
		Logger:    c.logger(),
	})
}

func newCacheExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write every cached translation to a JSON file (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := c.redisCache(cmd)
			if err != nil {
				return err
			}
			defer rc.Close()

			exp := cache.NewExporter(rc)
			meta := map[string]string{"source": "redis"}
			if args[0] == "-" {
				return exp.Export(c.stdout, meta)
			}
			if err := exp.ExportToFile(args[0], meta); err != nil {
				return err
			}
			keys, _ := rc.Keys()
			fmt.Fprintf(c.stderr, "Exported %d entries to %s\n", len(keys), args[0])
			return nil
		},
	}
}

func newCacheImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a JSON cache export into Redis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := c.redisCache(cmd)
			if err != nil {
				return err
			}
			defer rc.Close()

			res, err := cache.NewImporter(rc).ImportFromFile(args[0])
			if err != nil {
				return err
			}
			return c.emit(res, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %d entries (%d skipped, %d failed)\n", res.Imported, res.Skipped, res.Failed)
			})
		},
	}
}

func newCacheStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count cached entries in Redis or in --cache-file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				entries int
				where   string
			)
			switch {
			case c.v.GetString("redis-url") != "":
				rc, err := c.redisCache(cmd)
				if err != nil {
					return err
				}
				defer rc.Close()
				keys, err := rc.Keys()
				if err != nil {
					return err
				}
				entries, where = len(keys), "redis"
			case c.cache != nil:
				entries, where = c.cache.Len(), c.v.GetString("cache-file")
			default:
				return errors.New("--redis-url or --cache-file is required")
			}

			out := struct {
				Cache   string `json:"cache"`
				Entries int    `json:"entries"`
			}{where, entries}
			return c.emit(out, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %d entries\n", out.Cache, out.Entries)
			})
		},
	}
}
