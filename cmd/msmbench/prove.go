package main

import (
	"fmt"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/Han-16/sigmamsm/internal/circuit"
	"github.com/Han-16/sigmamsm/internal/randutil"
)

var proveCommand = cli.Command{
	Name:   "prove",
	Usage:  "prove an engine result in zero knowledge over emulated secp256k1",
	Action: proveCmd,
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "terms",
			Value: 2,
			Usage: "number of generator/scalar pairs",
		},
		cli.StringFlag{
			Name:  "backend",
			Value: "groth16",
			Usage: `"groth16" or "plonk"`,
		},
	},
}

func proveCmd(ctx *cli.Context) error {
	n := ctx.Int("terms")
	if n < 1 {
		return fmt.Errorf("--terms must be positive, got %d", n)
	}
	backend, err := circuit.ParseBackend(ctx.String("backend"))
	if err != nil {
		return err
	}
	scalars, err := randutil.RandomScalars(n)
	if err != nil {
		return err
	}
	points, err := randutil.RandomPoints(n)
	if err != nil {
		return err
	}

	res, err := circuit.ProveWith(backend, points, scalars)
	if err != nil {
		return err
	}

	fmt.Printf("backend     : %s\n", res.Backend)
	fmt.Printf("terms       : %d\n", res.Terms)
	fmt.Printf("constraints : %d\n", res.Constraints)
	fmt.Printf("compile     : %s\n", res.Compile)
	fmt.Printf("witness     : %s\n", res.Witness)
	fmt.Printf("setup       : %s\n", res.Setup)
	fmt.Printf("prove       : %s\n", res.Prove)
	fmt.Printf("verify      : %s\n", res.Verify)
	return nil
}
