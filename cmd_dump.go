package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/kmersync/kiblt/sketchio"
)

func newCmd_Dump() *cli.Command {
	return &cli.Command{
		Name:        "dump",
		Usage:       "Print a sketch file's header fields and provenance metadata.",
		Description: "Loads a sketch file and prints its construction parameters and any stored provenance metadata, without peeling it.",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return kiblterrUsage("dump requires a sketch file path argument")
			}
			sketch, meta, err := sketchio.LoadFile(path)
			if err != nil {
				return err
			}
			fmt.Printf("k=%d r=%d eps=%g n=%s seed=%d\n", sketch.K(), sketch.R(), sketch.Eps(), humanize.Comma(int64(sketch.N())), sketch.Seed())
			fmt.Printf("hash_bits=%d num_buckets=%s bucket_size=%d chunk=%d\n",
				sketch.HashBits(), humanize.Comma(int64(sketch.NumBuckets())), sketch.BucketSize(), sketch.Chunk())
			fmt.Printf("inserted_count=%s\n", humanize.Comma(int64(sketch.InsertedCount())))
			if fi, err := os.Stat(path); err == nil {
				fmt.Printf("file_size=%s\n", decor.SizeB1000(fi.Size()))
			}
			if meta != nil {
				fmt.Println("metadata:")
				for _, kv := range meta.KeyVals {
					fmt.Printf("  %s: %s\n", kv.Key, kv.Value)
				}
			}
			return nil
		},
	}
}
