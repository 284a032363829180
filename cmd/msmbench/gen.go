package main

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"github.com/consensys/gnark/logger"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/Han-16/sigmamsm/internal/cache"
	"github.com/Han-16/sigmamsm/internal/randutil"
)

var genCommand = cli.Command{
	Name:   "gen",
	Usage:  "generate or reload cached scalars and points",
	Action: genCmd,
	Flags: []cli.Flag{
		expFlag,
		cli.StringFlag{
			Name:  dirFlag.Name,
			Value: "testdata",
			Usage: "fixture cache directory",
		},
		cli.BoolFlag{
			Name:  "print",
			Usage: "print every scalar and point",
		},
	},
}

func genCmd(ctx *cli.Context) error {
	exp, n, err := terms(ctx)
	if err != nil {
		return err
	}
	scalars, points, err := inputs(ctx, exp, n)
	if err != nil {
		return err
	}
	if !ctx.Bool("print") {
		return nil
	}
	for i := range scalars {
		fmt.Printf("scalar %d: %s\n", i, scalars[i].String())
	}
	for i := range points {
		fmt.Printf("point %d: %s\n", i, points[i].String())
	}
	return nil
}

// inputs returns n random terms, from the --dir cache when it is set.
func inputs(ctx *cli.Context, exp, n int) ([]fr.Element, []secp256k1.G1Affine, error) {
	workers := procs(ctx)
	genScalars := func(n int) ([]fr.Element, error) { return randutil.RandomScalarsPar(n, workers) }
	genPoints := func(n int) ([]secp256k1.G1Affine, error) { return randutil.RandomPointsPar(n, workers) }

	dir := ctx.String(dirFlag.Name)
	if dir == "" {
		scalars, err := genScalars(n)
		if err != nil {
			return nil, nil, fmt.Errorf("generate scalars: %w", err)
		}
		points, err := genPoints(n)
		if err != nil {
			return nil, nil, fmt.Errorf("generate points: %w", err)
		}
		return scalars, points, nil
	}

	scalars, points, fromCache, err := cache.LoadOrCreateInputs(dir, exp, n, genScalars, genPoints)
	if err != nil {
		return nil, nil, err
	}
	log := logger.Logger()
	log.Info().Str("dir", dir).Int("exp", exp).Bool("cached", fromCache).Msg("inputs ready")
	return scalars, points, nil
}
