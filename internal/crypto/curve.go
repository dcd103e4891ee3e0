package crypto

import (
	"bytes"
	"crypto/ecdh"
	"crypto/rand"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/curve25519"

	"signalkeys/internal/domain"
)

// Strategy selects which X25519 implementation a Curve uses.
type Strategy int

const (
	// StrategyAuto probes the native stack once and picks it when it works.
	StrategyAuto Strategy = iota
	// StrategyNative uses crypto/ecdh with PKCS #8 / SPKI round trips.
	StrategyNative
	// StrategySoftware uses edwards25519 and x/crypto/curve25519 directly.
	StrategySoftware
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyNative:
		return "native"
	case StrategySoftware:
		return "software"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses the config spelling of a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "auto":
		return StrategyAuto, nil
	case "native":
		return StrategyNative, nil
	case "software":
		return StrategySoftware, nil
	default:
		return StrategyAuto, fmt.Errorf("unknown crypto strategy %q (want auto, native or software)", s)
	}
}

// errNativeUnavailable marks failures of the native path. It never leaves
// this package: callers see the software result instead.
var errNativeUnavailable = errors.New("native x25519 unavailable")

// Curve implements domain.Curve. A Curve is immutable once built and safe
// for concurrent use.
type Curve struct {
	strategy Strategy
	rand     io.Reader
	log      *slog.Logger
}

// Option configures a Curve.
type Option func(*Curve)

// WithStrategy forces a strategy instead of probing.
func WithStrategy(s Strategy) Option { return func(c *Curve) { c.strategy = s } }

// WithRandom replaces crypto/rand.Reader as the randomness source.
func WithRandom(r io.Reader) Option { return func(c *Curve) { c.rand = r } }

// WithLogger sets the logger used for probe and fallback events.
func WithLogger(l *slog.Logger) Option { return func(c *Curve) { c.log = l } }

// New builds a Curve. Unless a strategy is forced, the native stack is
// probed once here and the outcome is fixed for the Curve's lifetime.
func New(opts ...Option) *Curve {
	c := &Curve{rand: rand.Reader, log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(c)
	}
	if c.strategy == StrategyAuto {
		if err := probeNative(); err != nil {
			c.log.Debug("native x25519 probe failed, using software", "error", err)
			c.strategy = StrategySoftware
		} else {
			c.strategy = StrategyNative
		}
	}
	c.log.Debug("x25519 strategy selected", "strategy", c.strategy)
	return c
}

var defaultCurve = sync.OnceValue(func() *Curve { return New() })

// Default returns the process-wide Curve, probed on first use.
func Default() *Curve { return defaultCurve() }

// Strategy reports the strategy in effect.
func (c *Curve) Strategy() Strategy { return c.strategy }

// GenerateKeyPair returns a fresh key pair with a clamped private scalar and
// a wire-form public key. Both strategies consume exactly 32 random bytes,
// so equal randomness yields equal key pairs.
func (c *Curve) GenerateKeyPair() (domain.KeyPair, error) {
	var seed [32]byte
	if err := c.readRandom(seed[:]); err != nil {
		return domain.KeyPair{}, err
	}
	scalar := Clamp(seed)
	Wipe(seed[:])

	if c.strategy == StrategyNative {
		kp, err := nativeKeyPair(scalar)
		if err == nil {
			return kp, nil
		}
		c.log.Debug("native key generation failed, falling back", "error", err)
	}
	return softwareKeyPair(scalar)
}

// DerivePublicKey returns the wire-form agreement public key for a signing
// style private scalar.
func (c *Curve) DerivePublicKey(privateKey []byte) ([]byte, error) {
	if len(privateKey) != domain.PrivateKeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d",
			domain.ErrInvalidPrivateKey, domain.PrivateKeySize, len(privateKey))
	}
	unclamped := Unclamp([32]byte(privateKey))
	defer Wipe(unclamped[:])

	if c.strategy == StrategyNative {
		if priv, err := ecdh.X25519().NewPrivateKey(unclamped[:]); err == nil {
			return ToWireForm(priv.PublicKey().Bytes())
		}
	}
	pub, err := curve25519.X25519(unclamped[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPrivateKey, err)
	}
	return ToWireForm(pub)
}

func (c *Curve) readRandom(b []byte) error {
	if _, err := io.ReadFull(c.rand, b); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRandomnessUnavailable, err)
	}
	return nil
}

// nativeKeyPair goes through the platform DER encoders the same way a
// PKCS #8 / SPKI export would, and strips the containers with the codec.
func nativeKeyPair(scalar [32]byte) (domain.KeyPair, error) {
	priv, err := ecdh.X25519().NewPrivateKey(scalar[:])
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}
	defer Wipe(privDER)
	pubDER, err := x509.MarshalPKIXPublicKey(priv.PublicKey())
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}

	rawPriv, err := FromPKCS8(privDER)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}
	rawPub, err := FromSPKI(pubDER)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}
	pub, err := ToWireForm(rawPub)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: %v", errNativeUnavailable, err)
	}
	return domain.KeyPair{PublicKey: pub, PrivateKey: rawPriv}, nil
}

// softwareKeyPair multiplies the base point on the Edwards form and maps
// the result to its Montgomery u-coordinate.
func softwareKeyPair(scalar [32]byte) (domain.KeyPair, error) {
	pub, err := softwareBaseMult(scalar)
	if err != nil {
		return domain.KeyPair{}, err
	}
	wire, err := ToWireForm(pub)
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{PublicKey: wire, PrivateKey: append([]byte(nil), scalar[:]...)}, nil
}

func softwareBaseMult(scalar [32]byte) ([]byte, error) {
	s, err := new(edwards25519.Scalar).SetBytesWithClamping(scalar[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPrivateKey, err)
	}
	return new(edwards25519.Point).ScalarBaseMult(s).BytesMontgomery(), nil
}

// probeScalar is the RFC 7748 section 6.1 Alice private key.
var probeScalar = [32]byte{
	0x77, 0x07, 0x6d, 0x0a, 0x73, 0x18, 0xa5, 0x7d, 0x3c, 0x16, 0xc1, 0x72, 0x51, 0xb2, 0x66, 0x45,
	0xdf, 0x4c, 0x2f, 0x87, 0xeb, 0xc0, 0x99, 0x2a, 0xb1, 0x77, 0xfb, 0xa5, 0x1d, 0xb9, 0x2c, 0x2a,
}

// probeNative runs a known-answer round trip through the native stack:
// key generation, DER export, codec stripping, and agreement. Any mismatch
// with the software path disables native use.
func probeNative() error {
	scalar := Clamp(probeScalar)
	native, err := nativeKeyPair(scalar)
	if err != nil {
		return err
	}
	soft, err := softwareKeyPair(scalar)
	if err != nil {
		return err
	}
	if !bytes.Equal(native.PublicKey, soft.PublicKey) || !bytes.Equal(native.PrivateKey, soft.PrivateKey) {
		return fmt.Errorf("%w: key generation mismatch", errNativeUnavailable)
	}

	nativeSecret, err := nativeAgreement(soft.PublicKey[1:], scalar[:])
	if err != nil {
		return err
	}
	softSecret, err := curve25519.X25519(scalar[:], soft.PublicKey[1:])
	if err != nil {
		return err
	}
	if !bytes.Equal(nativeSecret, softSecret) {
		return fmt.Errorf("%w: agreement mismatch", errNativeUnavailable)
	}
	return nil
}

// Compile-time assertion that Curve implements domain.Curve.
var _ domain.Curve = (*Curve)(nil)
