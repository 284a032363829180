// msmbench benchmarks and cross-checks the secp256k1 multi-exponentiation.
//
//	go run ./cmd/msmbench bench --exp 16 --mode rand
//	go run ./cmd/msmbench check --exp 12 --dir testdata
//	go run ./cmd/msmbench gen --exp 20 --dir testdata
//	go run ./cmd/msmbench prove --terms 2
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	procsFlag = cli.IntFlag{
		Name:  "procs",
		Value: -1,
		Usage: "GOMAXPROCS setting and generator worker count (<= 0: number of CPU cores)",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Value: "info",
		Usage: "log level (trace, debug, info, warn, error, disabled)",
	}
	expFlag = cli.IntFlag{
		Name:  "exp",
		Value: 10,
		Usage: "number of terms is 2^exp",
	}
	dirFlag = cli.StringFlag{
		Name:  "dir",
		Usage: "fixture cache directory (empty: fresh random inputs)",
	}
)

var app = cli.NewApp()

func init() {
	app.Name = "msmbench"
	app.Usage = "secp256k1 multi-exponentiation benchmarks and checks"
	app.HideVersion = true
	app.Flags = []cli.Flag{procsFlag, logLevelFlag}
	app.Commands = []cli.Command{
		benchCommand,
		checkCommand,
		genCommand,
		proveCommand,
	}
	app.Before = setup
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(ctx *cli.Context) error {
	lvl, err := zerolog.ParseLevel(ctx.GlobalString(logLevelFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", logLevelFlag.Name, err)
	}
	zerolog.SetGlobalLevel(lvl)
	logger.Set(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger())

	runtime.GOMAXPROCS(procs(ctx))
	return nil
}

func procs(ctx *cli.Context) int {
	p := ctx.GlobalInt(procsFlag.Name)
	if p <= 0 {
		p = runtime.NumCPU()
	}
	return p
}

func terms(ctx *cli.Context) (exp, n int, err error) {
	exp = ctx.Int(expFlag.Name)
	if exp < 0 || exp > 26 {
		return 0, 0, fmt.Errorf("--%s must be in [0, 26], got %d", expFlag.Name, exp)
	}
	return exp, 1 << exp, nil
}
