// Package cache keeps generated MSM inputs on disk so that benchmarks and
// differential runs can be repeated on the same data.
//
// Each fixture is one JSON file per (kind, exp) under dir/<kind>/. Scalars are
// stored as hex, points as base64 of their 64-byte raw encoding.
package cache

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
	"github.com/consensys/gnark/logger"
)

var ErrMalformed = errors.New("malformed fixture")

// fixture is the on-disk form shared by every kind.
type fixture struct {
	Kind     string   `json:"kind"`
	Exp      int      `json:"exp"`
	N        int      `json:"n"`
	Encoding string   `json:"encoding"`
	Items    []string `json:"items"`
}

// codec turns one element of a fixture kind to and from its text form.
type codec[T any] struct {
	kind     string
	encoding string
	encode   func(*T) string
	decode   func(string) (T, error)
}

var scalarCodec = codec[fr.Element]{
	kind:     "scalars",
	encoding: "hex",
	encode:   func(s *fr.Element) string { return s.Text(16) },
	decode: func(text string) (fr.Element, error) {
		var s fr.Element
		bi, ok := new(big.Int).SetString(text, 16)
		if !ok {
			return s, fmt.Errorf("invalid scalar hex %q", text)
		}
		if bi.Sign() < 0 || bi.Cmp(fr.Modulus()) >= 0 {
			return s, errors.New("scalar not reduced")
		}
		s.SetBigInt(bi)
		return s, nil
	},
}

var pointCodec = codec[secp256k1.G1Affine]{
	kind:     "points",
	encoding: "base64-raw",
	encode: func(p *secp256k1.G1Affine) string {
		b := p.RawBytes()
		return base64.StdEncoding.EncodeToString(b[:])
	},
	decode: func(text string) (secp256k1.G1Affine, error) {
		var p secp256k1.G1Affine
		raw, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return p, fmt.Errorf("invalid point base64: %w", err)
		}
		if len(raw) != secp256k1.SizeOfG1AffineUncompressed {
			return p, fmt.Errorf("want %d bytes, got %d", secp256k1.SizeOfG1AffineUncompressed, len(raw))
		}
		if _, err := p.SetBytes(raw); err != nil {
			return p, err
		}
		if !p.IsOnCurve() {
			return p, errors.New("point not on curve")
		}
		return p, nil
	},
}

func (c codec[T]) path(dir string, exp int) (string, error) {
	dir = filepath.Join(dir, c.kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("make %s dir: %w", c.kind, err)
	}
	return filepath.Join(dir, fmt.Sprintf("exp_%d.json", exp)), nil
}

func (c codec[T]) save(path string, exp int, items []T) error {
	f := fixture{
		Kind:     c.kind,
		Exp:      exp,
		N:        len(items),
		Encoding: c.encoding,
		Items:    make([]string, len(items)),
	}
	for i := range items {
		f.Items[i] = c.encode(&items[i])
	}
	data, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c codec[T]) load(path string) ([]T, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case f.Kind != c.kind || f.Encoding != c.encoding:
		return nil, f.Exp, fmt.Errorf("%w: %s/%s file, want %s/%s", ErrMalformed, f.Kind, f.Encoding, c.kind, c.encoding)
	case f.N != len(f.Items):
		return nil, f.Exp, fmt.Errorf("%w: n=%d, got %d %s", ErrMalformed, f.N, len(f.Items), c.kind)
	}
	out := make([]T, f.N)
	for i := range out {
		if out[i], err = c.decode(f.Items[i]); err != nil {
			return nil, f.Exp, fmt.Errorf("%s %d: %w", c.kind, i, err)
		}
	}
	return out, f.Exp, nil
}

// loadOrCreate returns the n cached items for exp, or generates and saves them
// when the file is missing, unreadable or of another size.
func (c codec[T]) loadOrCreate(dir string, exp, n int, gen func(int) ([]T, error)) ([]T, bool, error) {
	log := logger.Logger().With().Str("component", "cache").Str("kind", c.kind).Int("exp", exp).Logger()

	path, err := c.path(dir, exp)
	if err != nil {
		return nil, false, err
	}

	items, fileExp, err := c.load(path)
	switch {
	case err == nil && len(items) == n && fileExp == exp:
		log.Info().Int("n", n).Msg("loaded from cache")
		return items, true, nil
	case errors.Is(err, os.ErrNotExist):
		log.Debug().Str("path", path).Msg("no cache")
	default:
		log.Warn().Err(err).Int("cached", len(items)).Int("n", n).Msg("cache stale, regenerating")
	}

	items, err = gen(n)
	if err != nil {
		return nil, false, err
	}
	log.Info().Str("path", path).Int("n", n).Msg("saving")
	if err := c.save(path, exp, items); err != nil {
		return nil, false, err
	}
	return items, false, nil
}

func ScalarPath(dir string, exp int) (string, error) { return scalarCodec.path(dir, exp) }

func PointPath(dir string, exp int) (string, error) { return pointCodec.path(dir, exp) }

func SaveScalars(path string, exp int, scalars []fr.Element) error {
	return scalarCodec.save(path, exp, scalars)
}

func LoadScalars(path string) ([]fr.Element, int, error) { return scalarCodec.load(path) }

func SavePoints(path string, exp int, points []secp256k1.G1Affine) error {
	return pointCodec.save(path, exp, points)
}

// LoadPoints reads points written by SavePoints. Every point is checked to be
// on the curve.
func LoadPoints(path string) ([]secp256k1.G1Affine, int, error) { return pointCodec.load(path) }

func LoadOrCreateScalars(dir string, exp, n int, gen func(int) ([]fr.Element, error)) ([]fr.Element, bool, error) {
	return scalarCodec.loadOrCreate(dir, exp, n, gen)
}

func LoadOrCreatePoints(dir string, exp, n int, gen func(int) ([]secp256k1.G1Affine, error)) ([]secp256k1.G1Affine, bool, error) {
	return pointCodec.loadOrCreate(dir, exp, n, gen)
}

// LoadOrCreateInputs returns n scalars and n points for exp, from dir when both
// files are present and valid. fromCache is true only if both were loaded.
func LoadOrCreateInputs(
	dir string, exp, n int,
	genScalars func(int) ([]fr.Element, error),
	genPoints func(int) ([]secp256k1.G1Affine, error),
) (scalars []fr.Element, points []secp256k1.G1Affine, fromCache bool, err error) {
	scalars, sCached, err := LoadOrCreateScalars(dir, exp, n, genScalars)
	if err != nil {
		return nil, nil, false, err
	}
	points, pCached, err := LoadOrCreatePoints(dir, exp, n, genPoints)
	if err != nil {
		return nil, nil, false, err
	}
	return scalars, points, sCached && pCached, nil
}
