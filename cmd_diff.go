package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kmersync/kiblt/kmerview"
	"github.com/kmersync/kiblt/sketchio"
)

func newCmd_Diff() *cli.Command {
	var hex bool
	return &cli.Command{
		Name:        "diff",
		Usage:       "Reconcile two sketches and list their symmetric difference.",
		Description: "Loads two sketch files built with identical parameters, subtracts the second from the first, and peels the result into keys present only in the first (positives) or only in the second (negatives).",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "hex", Usage: "print keys as hex instead of decoded bases", Destination: &hex},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return kiblterrUsage("diff requires exactly two sketch file arguments")
			}
			a, _, err := sketchio.LoadFile(c.Args().Get(0))
			if err != nil {
				return err
			}
			b, _, err := sketchio.LoadFile(c.Args().Get(1))
			if err != nil {
				return err
			}
			if err := a.Subtract(b); err != nil {
				return err
			}
			positives, negatives, outcome, err := a.List()
			if err != nil {
				return err
			}

			k := a.K()
			printKeys := func(label string, keys [][]byte) {
				fmt.Printf("%s (%d):\n", label, len(keys))
				for _, key := range keys {
					if hex {
						fmt.Printf("  %x\n", key)
					} else {
						fmt.Printf("  %s\n", decodeKmer(kmerview.UnpackKmer(key), k))
					}
				}
			}
			printKeys("only in first", positives)
			printKeys("only in second", negatives)
			fmt.Printf("outcome: %s\n", outcome)
			if outcome != 0 {
				return cli.Exit(fmt.Sprintf("reconciliation incomplete: %s", outcome), 2)
			}
			return nil
		},
	}
}
