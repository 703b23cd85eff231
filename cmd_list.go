package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kmersync/kiblt/kmerview"
	"github.com/kmersync/kiblt/sketchio"
)

func newCmd_List() *cli.Command {
	var hex bool
	return &cli.Command{
		Name:        "list",
		Usage:       "Peel a sketch and list its recovered keys.",
		Description: "Loads a single sketch file and peels it in place, printing keys recovered from a +1 count as positive and keys recovered from a -1 count as negative. The file is not rewritten.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "hex", Usage: "print keys as hex instead of decoded bases", Destination: &hex},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return kiblterrUsage("list requires a sketch file path argument")
			}
			sketch, _, err := sketchio.LoadFile(path)
			if err != nil {
				return err
			}
			positives, negatives, outcome, err := sketch.List()
			if err != nil {
				return err
			}
			k := sketch.K()
			print1 := func(label string, keys [][]byte) {
				fmt.Printf("%s (%d):\n", label, len(keys))
				for _, key := range keys {
					if hex {
						fmt.Printf("  %x\n", key)
					} else {
						fmt.Printf("  %s\n", decodeKmer(kmerview.UnpackKmer(key), k))
					}
				}
			}
			print1("positive", positives)
			print1("negative", negatives)
			fmt.Printf("outcome: %s\n", outcome)
			if outcome != 0 {
				return cli.Exit(fmt.Sprintf("peel incomplete: %s", outcome), 2)
			}
			return nil
		},
	}
}
