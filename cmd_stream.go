package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kmersync/kiblt/kmerview"
	"github.com/kmersync/kiblt/sampler"
)

// streamFlags are the flags shared by the kmers/syncmers/minimizers
// verbs: they all walk the same k-mer source and differ only in which
// sampling stage, if any, sits on top of it.
func streamFlags(k *uint, canonical *bool, format *string, chunkSize *int) []cli.Flag {
	return []cli.Flag{
		&cli.UintFlag{Name: "k", Usage: "k-mer width", Value: 21, Destination: k},
		&cli.StringFlag{Name: "format", Usage: "input framing: fasta, fastq, raw", Value: "fasta", Destination: format},
		&cli.BoolFlag{Name: "canonical", Usage: "use canonical (strand-independent) k-mers", Value: true, Destination: canonical},
		&cli.IntFlag{Name: "chunk-size", Usage: "read-ahead chunk size in bytes", Value: kmerview.DefaultChunkSize, Destination: chunkSize},
	}
}

func newCmd_Kmers() *cli.Command {
	var k uint
	var canonical bool
	var format string
	var chunkSize int
	return &cli.Command{
		Name:        "kmers",
		Usage:       "Print every canonical k-mer of a record stream, one per line.",
		Description: "No sampling stage; this is the raw stream 'build' would otherwise sample before insertion.",
		Flags:       streamFlags(&k, &canonical, &format, &chunkSize),
		Action: func(c *cli.Context) error {
			input := c.Args().First()
			if input == "" {
				return kiblterrUsage("kmers requires an input file path argument")
			}
			recs, closer, err := openRecordSource(input, format, chunkSize)
			if err != nil {
				return err
			}
			defer closer.Close()
			stream := kmerview.NewStream(uint8(k), canonical, recs)
			return printKmers(stream, uint8(k))
		},
	}
}

func newCmd_Syncmers() *cli.Command {
	var k uint
	var canonical bool
	var format string
	var chunkSize int
	var z, o1, o2 uint
	var seed uint64
	return &cli.Command{
		Name:        "syncmers",
		Usage:       "Print the syncmer subset of a record stream, one per line.",
		Flags: append(streamFlags(&k, &canonical, &format, &chunkSize),
			&cli.UintFlag{Name: "z", Usage: "internal window width", Required: true, Destination: &z},
			&cli.UintFlag{Name: "o1", Usage: "syncmer offset 1", Destination: &o1},
			&cli.UintFlag{Name: "o2", Usage: "syncmer offset 2", Destination: &o2},
			&cli.Uint64Flag{Name: "seed", Usage: "hash seed", Destination: &seed},
		),
		Action: func(c *cli.Context) error {
			input := c.Args().First()
			if input == "" {
				return kiblterrUsage("syncmers requires an input file path argument")
			}
			recs, closer, err := openRecordSource(input, format, chunkSize)
			if err != nil {
				return err
			}
			defer closer.Close()
			stream := kmerview.NewStream(uint8(k), canonical, recs)
			s := sampler.NewSyncmerSampler(stream, uint8(k), uint8(z), uint8(o1), uint8(o2), seed)
			return printKmers(s, uint8(k))
		},
	}
}

func newCmd_Minimizers() *cli.Command {
	var k uint
	var canonical bool
	var format string
	var chunkSize int
	var window uint
	var seed uint64
	return &cli.Command{
		Name:        "minimizers",
		Usage:       "Print the minimizer subset of a record stream, one per line.",
		Flags: append(streamFlags(&k, &canonical, &format, &chunkSize),
			&cli.UintFlag{Name: "window", Usage: "minimizer window width", Required: true, Destination: &window},
			&cli.Uint64Flag{Name: "seed", Usage: "hash seed", Destination: &seed},
		),
		Action: func(c *cli.Context) error {
			input := c.Args().First()
			if input == "" {
				return kiblterrUsage("minimizers requires an input file path argument")
			}
			recs, closer, err := openRecordSource(input, format, chunkSize)
			if err != nil {
				return err
			}
			defer closer.Close()
			stream := kmerview.NewStream(uint8(k), canonical, recs)
			m := sampler.NewMinimizerSampler(stream, uint8(window), seed)
			return printKmers(m, uint8(k))
		},
	}
}

func printKmers(src flatKmerSource, k uint8) error {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for {
		ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if _, err := fmt.Fprintln(w, decodeKmer(src.Kmer(), k)); err != nil {
			return err
		}
	}
}
