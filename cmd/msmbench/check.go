package main

import (
	"time"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark/logger"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/Han-16/sigmamsm/internal/commitment"
	"github.com/Han-16/sigmamsm/internal/msm"
	"github.com/Han-16/sigmamsm/internal/randutil"
)

// naive double-and-add gets slow past this many terms
const maxNaiveExp = 12

var checkCommand = cli.Command{
	Name:   "check",
	Usage:  "compare the engine against the naive and gnark multi-exponentiations",
	Action: checkCmd,
	Flags: []cli.Flag{
		expFlag,
		dirFlag,
		cli.UintFlag{
			Name:  "window",
			Usage: "engine window width in bits (0: automatic)",
		},
	},
}

func checkCmd(ctx *cli.Context) error {
	log := logger.Logger()

	exp, n, err := terms(ctx)
	if err != nil {
		return err
	}
	scalars, points, err := inputs(ctx, exp, n)
	if err != nil {
		return err
	}

	var opts []msm.Option
	if w := ctx.Uint("window"); w != 0 {
		opts = append(opts, msm.WithWindow(w))
	}
	me, err := msm.NewFromAffine(points, scalars, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	got := me.Multiple()
	log.Info().Int("n", n).Uint("window", me.Window()).Dur("took", time.Since(start)).Msg("engine")

	mismatches := 0
	compare := func(name string, want secp256k1.G1Jac) {
		if got.Equal(&want) {
			log.Info().Str("against", name).Msg("match")
			return
		}
		mismatches++
		log.Error().Str("against", name).Str("engine", got.String()).Str("want", want.String()).Msg("mismatch")
	}

	want, err := msm.GnarkMultiple(points, scalars)
	if err != nil {
		return err
	}
	compare("gnark", want)

	if exp <= maxNaiveExp {
		want, err = msm.NaiveMultiple(randutil.Jacobian(points), scalars)
		if err != nil {
			return err
		}
		compare("naive", want)
	} else {
		log.Info().Int("exp", exp).Msg("skipping naive comparison")
	}

	bv := commitment.NewBatchVerifier()
	if err := bv.Add(got, randutil.Jacobian(points), scalars); err != nil {
		return err
	}
	if ok, err := bv.Verify(); err != nil {
		return err
	} else if !ok {
		mismatches++
		log.Error().Msg("batch verifier rejected the engine result")
	}

	if mismatches > 0 {
		return cli.NewExitError("multi-exponentiation mismatch", 2)
	}
	return nil
}
