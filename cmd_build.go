package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"k8s.io/klog/v2"

	"github.com/kmersync/kiblt/continuity"
	"github.com/kmersync/kiblt/iblt"
	"github.com/kmersync/kiblt/indexmeta"
	"github.com/kmersync/kiblt/kiblterr"
	"github.com/kmersync/kiblt/kmerview"
	"github.com/kmersync/kiblt/sketchio"
)

func newCmd_Build() *cli.Command {
	var (
		k           uint
		r           uint
		eps         float64
		n           uint64
		seed        uint64
		format      string
		samplerMode string
		z, o1, o2   uint
		window      uint
		sampleSeed  uint64
		unique      bool
		canonical   bool
		chunkSize   int
		out         string
	)
	return &cli.Command{
		Name:        "build",
		Usage:       "Build an IBLT sketch from a FASTA/FASTQ/raw k-mer source.",
		Description: "Streams canonical k-mers from the input, optionally subsamples them, and inserts the survivors into a new IBLT sketch written to disk.",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "k", Usage: "k-mer width", Value: 21, Destination: &k},
			&cli.UintFlag{Name: "r", Usage: "number of IBLT rows", Value: 4, Destination: &r},
			&cli.Float64Flag{Name: "eps", Usage: "slack added to the per-row load factor when sizing the sketch, in [0,1]", Value: 0.01, Destination: &eps},
			&cli.Uint64Flag{Name: "n", Usage: "expected number of distinct keys (or set sketch.n in --config)", Destination: &n},
			&cli.Uint64Flag{Name: "seed", Usage: "hash seed", Value: 1, Destination: &seed},
			&cli.StringFlag{Name: "format", Usage: "input framing: fasta, fastq, raw", Value: "fasta", Destination: &format},
			&cli.BoolFlag{Name: "canonical", Usage: "use canonical (strand-independent) k-mers", Value: true, Destination: &canonical},
			&cli.StringFlag{Name: "sampler", Usage: "subsampling: none, syncmer, minimizer", Value: "none", Destination: &samplerMode},
			&cli.UintFlag{Name: "z", Usage: "syncmer internal window width", Destination: &z},
			&cli.UintFlag{Name: "o1", Usage: "syncmer offset 1", Destination: &o1},
			&cli.UintFlag{Name: "o2", Usage: "syncmer offset 2", Destination: &o2},
			&cli.UintFlag{Name: "window", Usage: "minimizer window width", Destination: &window},
			&cli.Uint64Flag{Name: "sample-seed", Usage: "sampler hash seed", Destination: &sampleSeed},
			&cli.BoolFlag{Name: "unique", Usage: "drop adjacent repeats before insertion", Destination: &unique},
			&cli.IntFlag{Name: "chunk-size", Usage: "read-ahead chunk size in bytes", Value: kmerview.DefaultChunkSize, Destination: &chunkSize},
			&cli.StringFlag{Name: "out", Usage: "output sketch file path", Required: true, Destination: &out},
			&cli.StringFlag{Name: "config", Usage: "JSON/YAML profile supplying defaults for any flag not explicitly set"},
		},
		Action: func(c *cli.Context) error {
			input := c.Args().First()
			if input == "" {
				return kiblterrUsage("build requires an input file path argument")
			}

			if configFile := c.String("config"); configFile != "" {
				cfg, err := LoadConfig(configFile)
				if err != nil {
					return kiblterr.Wrap(kiblterr.CodeInvalidParams, "load config", err)
				}
				if err := cfg.Validate(); err != nil {
					return kiblterr.Wrap(kiblterr.CodeInvalidParams, "validate config", err)
				}
				if !c.IsSet("k") {
					k = uint(cfg.Kmer.K)
				}
				if !c.IsSet("canonical") {
					canonical = cfg.Kmer.Canonical
				}
				if !c.IsSet("r") {
					r = uint(cfg.Sketch.R)
				}
				if !c.IsSet("eps") {
					eps = cfg.Sketch.Eps
				}
				if !c.IsSet("n") {
					n = cfg.Sketch.N
				}
				if !c.IsSet("seed") {
					seed = cfg.Sketch.Seed
				}
				if !c.IsSet("sampler") {
					samplerMode = cfg.Sampler.Mode
				}
				if !c.IsSet("z") {
					z = uint(cfg.Sampler.Z)
				}
				if !c.IsSet("o1") {
					o1 = uint(cfg.Sampler.O1)
				}
				if !c.IsSet("o2") {
					o2 = uint(cfg.Sampler.O2)
				}
				if !c.IsSet("window") {
					window = uint(cfg.Sampler.Window)
				}
				if !c.IsSet("sample-seed") {
					sampleSeed = cfg.Sampler.SampleSeed
				}
				if !c.IsSet("unique") {
					unique = cfg.Sampler.Unique
				}
				if !c.IsSet("chunk-size") && cfg.IO.ChunkSize > 0 {
					chunkSize = cfg.IO.ChunkSize
				}
				klog.Infof("loaded config %s (sha256 %s)", cfg.ConfigFilepath(), cfg.HashOfConfigFile())
			}
			if n == 0 {
				return kiblterrUsage("n must be set, either via --n or the config file's sketch.n")
			}

			src, closer, err := buildKmerSource(
				input, format, chunkSize,
				uint8(k), canonical,
				samplerMode, uint8(z), uint8(o1), uint8(o2), uint8(window), sampleSeed, unique,
			)
			if err != nil {
				return err
			}
			defer closer.Close()

			progress := mpb.New(mpb.WithWidth(48))
			bar := progress.AddBar(int64(n),
				mpb.PrependDecorators(decor.Name("inserting")),
				mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
			)

			var sketch *iblt.IBLT
			var inserted uint64
			var sourceDigest uint64
			chain := continuity.New().
				Thenf("construct sketch", func() error {
					sketch, err = iblt.New(iblt.Params{K: uint8(k), R: uint8(r), Eps: eps, N: n, Seed: seed})
					return err
				}).
				Thenf("insert keys", func() error {
					for {
						ok, err := src.Next()
						if err != nil {
							return err
						}
						if !ok {
							return nil
						}
						key := kmerview.PackKmer(src.Kmer(), uint8(k))
						if err := sketch.Insert(key); err != nil {
							return err
						}
						inserted++
						bar.Increment()
					}
				}).
				Thenf("digest source", func() error {
					sourceDigest, err = digestFileXXH64(input)
					return err
				}).
				Thenf("save sketch", func() error {
					meta := &indexmeta.Meta{}
					_ = meta.AddString(sketchio.MetaKeyBuildTool, "kiblt-build")
					_ = meta.AddString(sketchio.MetaKeySource, input)
					_ = meta.AddString(sketchio.MetaKeyBuiltAt, time.Now().UTC().Format(time.RFC3339))
					_ = meta.AddString(sketchio.MetaKeySourceXXH64, strconv.FormatUint(sourceDigest, 16))
					return sketchio.SaveFile(out, sketch, meta)
				})
			chainErr := chain.Err()
			bar.SetCurrent(int64(inserted))
			bar.Abort(false)
			progress.Wait()
			if chainErr != nil {
				return chainErr
			}
			klog.Infof("inserted %s keys into %s", humanize.Comma(int64(inserted)), out)
			fmt.Printf("built %s: k=%d r=%d n=%s inserted=%s\n", out, k, r, humanize.Comma(int64(n)), humanize.Comma(int64(inserted)))
			return nil
		},
	}
}

func kiblterrUsage(msg string) error {
	return cli.Exit(msg, 1)
}
