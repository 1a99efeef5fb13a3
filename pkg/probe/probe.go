package probe

import (
	"context"
	"strings"

	"github.com/go-go-golems/inferctl/pkg/wsl"
	"github.com/pkg/errors"
)

// Probe answers whether the subsystem and a named distribution are present.
// It performs no retries; the underlying queries are local and instantaneous.
type Probe struct {
	Cap wsl.Capability
}

func New(c wsl.Capability) *Probe {
	return &Probe{Cap: c}
}

func (p *Probe) IsHostCompatible(ctx context.Context) bool {
	return p.Cap.IsHostCompatible(ctx)
}

// HasDistribution matches name case-insensitively against the installed
// distributions.
func (p *Probe) HasDistribution(ctx context.Context, name string) (bool, error) {
	installed, err := p.Cap.ListDistributions(ctx)
	if err != nil {
		return false, err
	}
	_, ok := match(installed, name)
	return ok, nil
}

// ResolveDistribution never substitutes another distribution for name.
func (p *Probe) ResolveDistribution(ctx context.Context, name string) (wsl.Handle, error) {
	if !p.Cap.IsHostCompatible(ctx) {
		return wsl.Handle{}, wsl.ErrEnvironmentUnavailable
	}
	installed, err := p.Cap.ListDistributions(ctx)
	if err != nil {
		return wsl.Handle{}, err
	}
	actual, ok := match(installed, name)
	if !ok {
		return wsl.Handle{}, errors.Wrapf(wsl.ErrDistributionNotFound, "distribution %q", name)
	}
	return wsl.NewHandle(actual, p.Cap), nil
}

func match(installed []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, d := range installed {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return d, true
		}
	}
	return "", false
}
