package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/kmersync/kiblt/kmerview"
)

func newCmd_Count() *cli.Command {
	var (
		k           uint
		canonical   bool
		format      string
		samplerMode string
		z, o1, o2   uint
		window      uint
		sampleSeed  uint64
		unique      bool
		chunkSize   int
	)
	return &cli.Command{
		Name:        "count",
		Usage:       "Count the k-mers (or sampled k-mers) a build would insert, without building a sketch.",
		Description: "Streams a file through the same k-mer and sampling pipeline 'build' uses, and reports only the resulting count, useful for choosing n before building.",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "k", Usage: "k-mer width", Value: 21, Destination: &k},
			&cli.StringFlag{Name: "format", Usage: "input framing: fasta, fastq, raw", Value: "fasta", Destination: &format},
			&cli.BoolFlag{Name: "canonical", Usage: "use canonical (strand-independent) k-mers", Value: true, Destination: &canonical},
			&cli.StringFlag{Name: "sampler", Usage: "subsampling: none, syncmer, minimizer", Value: "none", Destination: &samplerMode},
			&cli.UintFlag{Name: "z", Usage: "syncmer internal window width", Destination: &z},
			&cli.UintFlag{Name: "o1", Usage: "syncmer offset 1", Destination: &o1},
			&cli.UintFlag{Name: "o2", Usage: "syncmer offset 2", Destination: &o2},
			&cli.UintFlag{Name: "window", Usage: "minimizer window width", Destination: &window},
			&cli.Uint64Flag{Name: "sample-seed", Usage: "sampler hash seed", Destination: &sampleSeed},
			&cli.BoolFlag{Name: "unique", Usage: "drop adjacent repeats before counting", Destination: &unique},
			&cli.IntFlag{Name: "chunk-size", Usage: "read-ahead chunk size in bytes", Value: kmerview.DefaultChunkSize, Destination: &chunkSize},
		},
		Action: func(c *cli.Context) error {
			input := c.Args().First()
			if input == "" {
				return kiblterrUsage("count requires an input file path argument")
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

			var count uint64
			for {
				ok, err := src.Next()
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				count++
			}
			fmt.Println(humanize.Comma(int64(count)))
			return nil
		},
	}
}
