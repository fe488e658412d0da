package plant

import (
	"errors"
	"fmt"
	"math"
)

// Default parameter values matching the interactive panel defaults.
const (
	DefaultGain = 1.0
	DefaultTau  = 1.0
	DefaultWn   = 1.0
	DefaultZeta = 0.5
)

var (
	// ErrZeroTimeConstant indicates a first-order plant with tau = 0.
	ErrZeroTimeConstant = errors.New("plant: time constant must be non-zero")

	// ErrZeroNaturalFreq indicates a second-order plant with wn = 0.
	ErrZeroNaturalFreq = errors.New("plant: natural frequency must be non-zero")

	// ErrInvalidParameter indicates a NaN or negative parameter value.
	ErrInvalidParameter = errors.New("plant: parameter out of valid range")

	// ErrUnknownKind indicates a Kind value outside the known archetypes.
	ErrUnknownKind = errors.New("plant: unknown plant kind")
)

// Kind identifies a plant archetype.
type Kind int

const (
	FirstOrder Kind = iota
	SecondOrder
	Integrator
)

func (k Kind) String() string {
	switch k {
	case FirstOrder:
		return "first_order"
	case SecondOrder:
		return "second_order"
	case Integrator:
		return "integrator"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a config/CLI name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "first_order", "first":
		return FirstOrder, nil
	case "second_order", "second":
		return SecondOrder, nil
	case "integrator":
		return Integrator, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// Kinds lists the supported archetypes in panel order.
func Kinds() []Kind {
	return []Kind{FirstOrder, SecondOrder, Integrator}
}

// Params is the tagged parameter set for one plant. Only the fields
// relevant to Kind are consulted: Tau for FirstOrder, Wn and Zeta for
// SecondOrder, K for all.
type Params struct {
	Kind Kind
	K    float64
	Tau  float64
	Wn   float64
	Zeta float64
}

func NewFirstOrder(k, tau float64) Params {
	return Params{Kind: FirstOrder, K: k, Tau: tau}
}

func NewSecondOrder(k, wn, zeta float64) Params {
	return Params{Kind: SecondOrder, K: k, Wn: wn, Zeta: zeta}
}

func NewIntegrator(k float64) Params {
	return Params{Kind: Integrator, K: k}
}

// Validate rejects parameter sets that would produce NaN or Inf
// trajectories: zero tau or wn, NaN anywhere, and negative values.
func (p Params) Validate() error {
	if err := checkFinite("k", p.K); err != nil {
		return err
	}
	switch p.Kind {
	case FirstOrder:
		if p.Tau == 0 {
			return ErrZeroTimeConstant
		}
		return checkFinite("tau", p.Tau)
	case SecondOrder:
		if p.Wn == 0 {
			return ErrZeroNaturalFreq
		}
		if err := checkFinite("wn", p.Wn); err != nil {
			return err
		}
		return checkFinite("zeta", p.Zeta)
	case Integrator:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(p.Kind))
	}
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidParameter, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s = %g is negative", ErrInvalidParameter, name, v)
	}
	return nil
}

// State carries the integrator state of one plant across steps within a
// single run. The zero value is the rest state. A State must never be
// shared between runs.
type State struct {
	Y   float64 // first-order output
	X1  float64 // second-order position state
	X2  float64 // second-order velocity state
	Sum float64 // integrator accumulator
}

// Step advances the plant by one forward-Euler step with input u and
// returns the new output. Callers are responsible for validating Params
// once per run; Step itself performs no checks.
func (p Params) Step(s *State, u, dt float64) float64 {
	switch p.Kind {
	case SecondOrder:
		// Controllable canonical form:
		//   dx1 = x2
		//   dx2 = -wn^2 x1 - 2 zeta wn x2 + k wn^2 u
		dx1 := s.X2
		dx2 := -p.Wn*p.Wn*s.X1 - 2*p.Zeta*p.Wn*s.X2 + p.K*p.Wn*p.Wn*u
		s.X1 += dx1 * dt
		s.X2 += dx2 * dt
		return s.X1
	case Integrator:
		s.Sum += p.K * u * dt
		return s.Sum
	default:
		// tau dy/dt + y = k u
		s.Y += (dt / p.Tau) * (p.K*u - s.Y)
		return s.Y
	}
}

// Response computes the open-loop output for an input sequence, starting
// from rest. Each call allocates its own State, so separate invocations
// never alias.
func (p Params) Response(u []float64, dt float64) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w: dt = %g", ErrInvalidParameter, dt)
	}
	var s State
	y := make([]float64, len(u))
	for i := range u {
		y[i] = p.Step(&s, u[i], dt)
	}
	return y, nil
}

// TransferFunction renders G(s) for display.
func (p Params) TransferFunction() string {
	switch p.Kind {
	case SecondOrder:
		return fmt.Sprintf("G(s) = %.2f·%.2f² / (s² + %.2fs + %.2f²)",
			p.K, p.Wn, 2*p.Zeta*p.Wn, p.Wn)
	case Integrator:
		return fmt.Sprintf("G(s) = %.2f / s", p.K)
	default:
		return fmt.Sprintf("G(s) = %.2f / (%.2fs + 1)", p.K, p.Tau)
	}
}
