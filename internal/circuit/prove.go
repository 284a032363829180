package circuit

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/test/unsafekzg"

	"github.com/Han-16/sigmamsm/internal/msm"
)

// Backend selects the proof system.
type Backend int

const (
	Groth16 Backend = iota
	Plonk
)

func (b Backend) String() string {
	switch b {
	case Groth16:
		return "groth16"
	case Plonk:
		return "plonk"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// builder returns the constraint system builder the backend proves over.
func (b Backend) builder() frontend.NewBuilder {
	var nb frontend.NewBuilder = r1cs.NewBuilder
	if b == Plonk {
		nb = scs.NewBuilder
	}
	return nb
}

// ParseBackend maps "groth16" or "plonk" to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "groth16":
		return Groth16, nil
	case "plonk":
		return Plonk, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", s)
	}
}

// Result reports the size of the compiled circuit and the time spent in each phase.
type Result struct {
	Backend     Backend
	Terms       int
	Constraints int
	Sum         secp256k1.G1Affine

	Compile, Witness, Setup, Prove, Verify time.Duration
}

// Prove is ProveWith(Groth16, ...).
func Prove(generators []secp256k1.G1Affine, scalars []fr.Element) (*Result, error) {
	return ProveWith(Groth16, generators, scalars)
}

// ProveWith computes the combination with msm.MultiExponent and proves the
// result: compile, setup, prove, verify. The plonk SRS comes from unsafekzg and
// is only fit for benchmarking.
func ProveWith(b Backend, generators []secp256k1.G1Affine, scalars []fr.Element) (*Result, error) {
	log := logger.Logger().With().Str("component", "circuit").Stringer("backend", b).Int("terms", len(generators)).Logger()

	me, err := msm.NewFromAffine(generators, scalars)
	if err != nil {
		return nil, err
	}
	sumJac := me.Multiple()
	res := &Result{Backend: b, Terms: len(generators)}
	res.Sum.FromJacobian(&sumJac)

	assignment, err := Assign(generators, scalars, res.Sum)
	if err != nil {
		return nil, err
	}

	field := ecc.BN254.ScalarField()

	t0 := time.Now()
	cs, err := frontend.Compile(field, b.builder(), NewCombination(len(generators)))
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}
	res.Compile = time.Since(t0)
	res.Constraints = cs.GetNbConstraints()
	log.Debug().Int("constraints", res.Constraints).Dur("took", res.Compile).Msg("compiled")

	t1 := time.Now()
	w, err := frontend.NewWitness(assignment, field)
	if err != nil {
		return nil, fmt.Errorf("witness failed: %w", err)
	}
	pubW, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("public witness failed: %w", err)
	}
	res.Witness = time.Since(t1)

	switch b {
	case Groth16:
		err = proveGroth16(cs, w, pubW, res)
	case Plonk:
		err = provePlonk(cs, w, pubW, res)
	default:
		err = fmt.Errorf("unknown backend %d", int(b))
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Dur("setup", res.Setup).
		Dur("prove", res.Prove).
		Dur("verify", res.Verify).
		Msg("combination proven")
	return res, nil
}

func proveGroth16(cs constraint.ConstraintSystem, w, pubW witness.Witness, res *Result) error {
	t2 := time.Now()
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	res.Setup = time.Since(t2)

	t3 := time.Now()
	proof, err := groth16.Prove(cs, pk, w)
	if err != nil {
		return fmt.Errorf("prove failed: %w", err)
	}
	res.Prove = time.Since(t3)

	t4 := time.Now()
	if err := groth16.Verify(proof, vk, pubW); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	res.Verify = time.Since(t4)
	return nil
}

func provePlonk(cs constraint.ConstraintSystem, w, pubW witness.Witness, res *Result) error {
	t2 := time.Now()
	srs, srsLagrange, err := unsafekzg.NewSRS(cs)
	if err != nil {
		return fmt.Errorf("srs failed: %w", err)
	}
	pk, vk, err := plonk.Setup(cs, srs, srsLagrange)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	res.Setup = time.Since(t2)

	t3 := time.Now()
	proof, err := plonk.Prove(cs, pk, w)
	if err != nil {
		return fmt.Errorf("prove failed: %w", err)
	}
	res.Prove = time.Since(t3)

	t4 := time.Now()
	if err := plonk.Verify(proof, vk, pubW); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	res.Verify = time.Since(t4)
	return nil
}
