package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kmersync/kiblt/sketchio"
)

func newCmd_Jaccard() *cli.Command {
	return &cli.Command{
		Name:        "jaccard",
		Usage:       "Estimate the Jaccard similarity of two sketches.",
		Description: "Peels the symmetric difference of two sketches and reports |A\\B| and |B\\A|, from which the Jaccard index is estimated using each sketch's recorded insertion count as a stand-in for |A| and |B|.",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return kiblterrUsage("jaccard requires exactly two sketch file arguments")
			}
			a, _, err := sketchio.LoadFile(c.Args().Get(0))
			if err != nil {
				return err
			}
			b, _, err := sketchio.LoadFile(c.Args().Get(1))
			if err != nil {
				return err
			}
			nA, nB := a.InsertedCount(), b.InsertedCount()

			if err := a.Subtract(b); err != nil {
				return err
			}
			positives, negatives, outcome, err := a.List()
			if err != nil {
				return err
			}
			if outcome != 0 {
				return cli.Exit(fmt.Sprintf("reconciliation incomplete: %s", outcome), 2)
			}

			onlyA := uint64(len(positives))
			onlyB := uint64(len(negatives))
			intersection := nA - onlyA // keys present in both: A minus the ones only A has
			union := nA + onlyB        // A together with the keys only B has
			var jaccard float64
			if union > 0 {
				jaccard = float64(intersection) / float64(union)
			}

			fmt.Printf("|A|=%d |B|=%d only-in-A=%d only-in-B=%d jaccard=%.6f\n", nA, nB, onlyA, onlyB, jaccard)
			return nil
		},
	}
}
