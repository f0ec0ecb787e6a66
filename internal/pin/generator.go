// Package pin allocates join codes for competitions.
package pin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/groudina/competitions/internal/domain"
)

const (
	// DefaultLength is the number of digits in a generated pin
	DefaultLength = 6
	// DefaultAttempts is how many candidates are tried before giving up
	DefaultAttempts = 10

	digits = "0123456789"
)

// Generator produces a unique competition pin
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// TakenChecker reports whether a pin is already owned by a stored competition
type TakenChecker interface {
	PinExists(ctx context.Context, pin string) (bool, error)
}

// Config holds pin generation settings
type Config struct {
	Length   int
	Attempts int
}

// RandomGenerator draws numeric pins and reserves them before handing them out
type RandomGenerator struct {
	source   Source
	taken    TakenChecker
	reserver Reserver
	cfg      Config
	logger   *slog.Logger
}

// NewRandomGenerator creates a RandomGenerator. Zero config values fall back to defaults.
func NewRandomGenerator(source Source, taken TakenChecker, reserver Reserver, cfg Config, logger *slog.Logger) *RandomGenerator {
	if cfg.Length <= 0 {
		cfg.Length = DefaultLength
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	return &RandomGenerator{
		source:   source,
		taken:    taken,
		reserver: reserver,
		cfg:      cfg,
		logger:   logger,
	}
}

var _ Generator = (*RandomGenerator)(nil)

// Generate returns a pin that no stored competition uses and nobody else reserved
func (g *RandomGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= g.cfg.Attempts; attempt++ {
		candidate := g.draw()

		taken, err := g.taken.PinExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check pin: %w", err)
		}
		if taken {
			g.logger.Debug("Pin already used by a competition", "attempt", attempt)
			continue
		}

		reserved, err := g.reserver.Reserve(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to reserve pin: %w", err)
		}
		if reserved {
			return candidate, nil
		}
		g.logger.Debug("Pin already reserved", "attempt", attempt)
	}

	g.logger.Warn("Pin allocation exhausted", "attempts", g.cfg.Attempts, "length", g.cfg.Length)
	return "", domain.ErrPinExhausted
}

func (g *RandomGenerator) draw() string {
	var b strings.Builder
	b.Grow(g.cfg.Length)
	for i := 0; i < g.cfg.Length; i++ {
		b.WriteByte(digits[g.source.Intn(len(digits))])
	}
	return b.String()
}
