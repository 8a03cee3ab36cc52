// Command kvondump is a thin CLI shell around the kvon package's file
// entry points: inspecting a store on disk, and converting between read/
// write strategies and compression kinds for benchmarking. It is not part
// of the core codec/pipeline budget, just a convenient external front end.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/arloliu/kvon"
	"github.com/arloliu/kvon/compress"
	"github.com/arloliu/kvon/config"
	"github.com/arloliu/kvon/pipeline"
)

var log zerolog.Logger

func main() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	app := &cli.App{
		Name:  "kvondump",
		Usage: "inspect and convert kvon files",
		Commands: []*cli.Command{
			inspectCommand,
			convertCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("kvondump failed")
	}
}

func parseCompression(name string) (compress.Kind, error) {
	switch name {
	case "", "none":
		return compress.None, nil
	case "zstd":
		return compress.Zstd, nil
	case "s2":
		return compress.S2, nil
	case "lz4":
		return compress.LZ4, nil
	default:
		return compress.None, fmt.Errorf("unknown compression kind %q", name)
	}
}

func buildConfig(c *cli.Context) (*config.Config, error) {
	kind, err := parseCompression(c.String("compression"))
	if err != nil {
		return nil, err
	}

	opts := []config.Option{
		config.WithCompression(kind),
	}
	if n := c.Int("chunk-lines"); n > 0 {
		opts = append(opts, config.WithChunkLines(n))
	}
	if n := c.Int("parallelism"); n > 0 {
		opts = append(opts, config.WithParallelism(n))
	}

	return config.Apply(opts...)
}

var inspectCommand = &cli.Command{
	Name:      "inspect",
	Usage:     "read a kvon file and report its record count and checksum",
	ArgsUsage: "<path>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "read-strategy", Value: "auto", Usage: "auto|whole|chunked"},
		&cli.StringFlag{Name: "compression", Value: "none", Usage: "none|zstd|s2|lz4"},
		&cli.IntFlag{Name: "chunk-lines", Usage: "lines per chunk for the chunked read strategy"},
		&cli.IntFlag{Name: "parallelism", Usage: "worker-pool width, 0 for GOMAXPROCS"},
	},
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return cli.Exit("inspect requires a file path", 1)
		}

		cfg, err := buildConfig(c)
		if err != nil {
			return cli.Exit(err, 1)
		}

		store, err := readStrategy(c.String("read-strategy"))(path, cfg)
		if err != nil {
			return cli.Exit(err, 1)
		}

		checksum, err := store.Checksum()
		if err != nil {
			return cli.Exit(err, 1)
		}

		log.Info().
			Str("path", path).
			Int("records", store.Len()).
			Uint64("checksum", checksum).
			Msg("inspected store")

		return nil
	},
}

var convertCommand = &cli.Command{
	Name:      "convert",
	Usage:     "read a kvon file with one strategy and rewrite it with another",
	ArgsUsage: "<input> <output>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "read-strategy", Value: "auto", Usage: "auto|whole|chunked"},
		&cli.StringFlag{Name: "write-strategy", Value: "auto", Usage: "auto|chunked|ordered|pipelined"},
		&cli.StringFlag{Name: "compression", Value: "none", Usage: "none|zstd|s2|lz4 (applies to the output file)"},
		&cli.IntFlag{Name: "chunk-lines", Usage: "lines per chunk for the chunked read strategy"},
		&cli.IntFlag{Name: "parallelism", Usage: "worker-pool width, 0 for GOMAXPROCS"},
	},
	Action: func(c *cli.Context) error {
		input := c.Args().Get(0)
		output := c.Args().Get(1)
		if input == "" || output == "" {
			return cli.Exit("convert requires an input and an output path", 1)
		}

		readCfg, err := buildConfig(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		readCfg.Compression = compress.None

		start := time.Now()
		store, err := readStrategy(c.String("read-strategy"))(input, readCfg)
		if err != nil {
			return cli.Exit(err, 1)
		}
		log.Info().Str("path", input).Int("records", store.Len()).Dur("elapsed", time.Since(start)).Msg("read")

		writeCfg, err := buildConfig(c)
		if err != nil {
			return cli.Exit(err, 1)
		}

		start = time.Now()
		if err := writeStrategy(c.String("write-strategy"))(store, output, writeCfg); err != nil {
			return cli.Exit(err, 1)
		}
		log.Info().Str("path", output).Dur("elapsed", time.Since(start)).Msg("wrote")

		return nil
	},
}

func readStrategy(name string) func(string, *config.Config) (*kvon.Store, error) {
	switch name {
	case "whole":
		return pipeline.ReadWholeFile
	case "chunked":
		return pipeline.ReadChunked
	default:
		return kvon.DeserializeAuto
	}
}

func writeStrategy(name string) func(*kvon.Store, string, *config.Config) error {
	switch name {
	case "chunked":
		return kvon.SerializeChunked
	case "ordered":
		return kvon.SerializeOrderedFanout
	case "pipelined":
		return pipeline.WritePipelined
	default:
		return kvon.SerializeAuto
	}
}
