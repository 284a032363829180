package main

import (
	"fmt"
	"math/big"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"github.com/consensys/gnark/logger"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/Han-16/sigmamsm/internal/msm"
)

var benchCommand = cli.Command{
	Name:  "bench",
	Usage: "time the engine against gnark's multi-exponentiation",
	Description: `In const mode every term is s*G, so the result is checked against (n*s)*G.
In rand mode the terms are random and the engine is checked against gnark.
One line per run is appended to --out.`,
	Action: benchCmd,
	Flags: []cli.Flag{
		expFlag,
		dirFlag,
		cli.IntFlag{
			Name:  "iters",
			Value: 5,
			Usage: "number of timed iterations",
		},
		cli.StringFlag{
			Name:  "mode",
			Value: "const",
			Usage: `"const" or "rand"`,
		},
		cli.UintFlag{
			Name:  "window",
			Usage: "engine window width in bits (0: automatic)",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "results file (default <mode>_procs<procs>.txt)",
		},
	},
}

func benchCmd(ctx *cli.Context) error {
	log := logger.Logger()

	exp, n, err := terms(ctx)
	if err != nil {
		return err
	}
	iters := ctx.Int("iters")
	if iters <= 0 {
		iters = 1
	}
	maxProcs := procs(ctx)
	mode := strings.ToLower(ctx.String("mode"))

	// ---- prepare scalars & points ----
	var (
		scalars  []fr.Element
		points   []secp256k1.G1Affine
		expected secp256k1.G1Jac
	)
	switch mode {
	case "const":
		scalars, points, expected, err = constInputs(n)
	case "rand":
		scalars, points, err = inputs(ctx, exp, n)
		if err == nil {
			expected, err = msm.GnarkMultiple(points, scalars)
		}
	default:
		return fmt.Errorf(`--mode must be "const" or "rand", got %q`, mode)
	}
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

	// ---- benchmark ----
	engine, err := timeRuns(iters, &expected, func() (secp256k1.G1Jac, error) {
		return me.Multiple(), nil
	})
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	gnark, err := timeRuns(iters, &expected, func() (secp256k1.G1Jac, error) {
		return msm.GnarkMultiple(points, scalars)
	})
	if err != nil {
		return fmt.Errorf("gnark: %w", err)
	}

	// ---- summary ----
	filename := ctx.String("out")
	if filename == "" {
		filename = fmt.Sprintf("%s_procs%d.txt", mode, maxProcs)
	}
	out, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if fi, err := out.Stat(); err == nil && fi.Size() == 0 {
		fmt.Fprintf(out, "# MSM Benchmark Results (mode=%s, procs=%d)\n", mode, maxProcs)
		fmt.Fprintln(out, "# exp | n | window | iters | Best | Avg | gnark Best | gnark Avg")
	}
	if _, err := fmt.Fprintf(out, "%d | %d | %d | %d | %s | %s | %s | %s\n",
		exp, n, me.Window(), iters, engine.best, engine.avg, gnark.best, gnark.avg); err != nil {
		return err
	}

	log.Info().
		Str("mode", mode).
		Int("procs", maxProcs).
		Int("exp", exp).
		Uint("window", me.Window()).
		Dur("best", engine.best).
		Dur("gnark_best", gnark.best).
		Str("file", filename).
		Msg("appended")
	return nil
}

// constInputs returns n copies of s and G with the expected result (n*s)*G.
func constInputs(n int) ([]fr.Element, []secp256k1.G1Affine, secp256k1.G1Jac, error) {
	var s fr.Element
	if _, err := s.SetRandom(); err != nil {
		return nil, nil, secp256k1.G1Jac{}, err
	}
	scalars := make([]fr.Element, n)
	for i := range scalars {
		scalars[i] = s
	}

	_, g := secp256k1.Generators()
	points := make([]secp256k1.G1Affine, n)
	for i := range points {
		points[i] = g
	}

	var ns fr.Element
	ns.SetUint64(uint64(n))
	ns.Mul(&ns, &s)

	var expected secp256k1.G1Jac
	expected.FromAffine(&g)
	expected.ScalarMultiplication(&expected, ns.BigInt(new(big.Int)))
	return scalars, points, expected, nil
}

type timing struct {
	best, avg time.Duration
}

// timeRuns runs fn iters times, checking every result against expected.
func timeRuns(iters int, expected *secp256k1.G1Jac, fn func() (secp256k1.G1Jac, error)) (timing, error) {
	var best, total time.Duration
	for it := range iters {
		start := time.Now()
		res, err := fn()
		if err != nil {
			return timing{}, err
		}
		elapsed := time.Since(start)

		if !res.Equal(expected) {
			return timing{}, fmt.Errorf("iter %d: result mismatch", it)
		}
		runtime.KeepAlive(res)

		if it == 0 || elapsed < best {
			best = elapsed
		}
		total += elapsed
	}
	return timing{best: best, avg: total / time.Duration(iters)}, nil
}
