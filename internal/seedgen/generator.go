package seedgen

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/devmatch/internal/adapters/repository"
	"github.com/okian/devmatch/internal/domain/model"
	"github.com/okian/devmatch/pkg/logger"
)

// ErrInvalidConfig reports unusable generator settings.
var ErrInvalidConfig = errors.New("invalid generator config")

// Generator builds fixtures. The same seed yields the same fixture.
type Generator struct {
	cfg  Config
	src  *rand.ChaCha8
	rng  *rand.Rand
	seed uint64
}

// New validates cfg and creates a Generator.
func New(cfg Config) (*Generator, error) {
	switch {
	case cfg.Projects < 0 || cfg.Developers < 0 || cfg.Others < 0:
		return nil, fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	case cfg.MaxSkills < 1:
		return nil, fmt.Errorf("%w: max skills must be positive", ErrInvalidConfig)
	}
	seed := cfg.Seed
	if seed == 0 {
		var b [8]byte
		_, _ = crand.Read(b[:])
		seed = binary.LittleEndian.Uint64(b[:]) | 1
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	return &Generator{cfg: cfg, src: src, rng: rand.New(src), seed: seed}, nil
}

// Seed returns the seed in use, so a random run can be replayed.
func (g *Generator) Seed() uint64 { return g.seed }

// Generate builds a fixture. It stops early when ctx is cancelled.
func (g *Generator) Generate(ctx context.Context) (repository.Seed, error) {
	logger.Get().Info(ctx, "generating fixture",
		logger.Int("projects", g.cfg.Projects),
		logger.Int("developers", g.cfg.Developers),
		logger.Int("others", g.cfg.Others),
		logger.Any("seed", g.seed))

	out := repository.Seed{
		Projects: make([]model.Project, 0, g.cfg.Projects),
		Users:    make([]model.Candidate, 0, g.cfg.Developers+g.cfg.Others),
	}
	for i := range g.cfg.Projects {
		if err := ctx.Err(); err != nil {
			return repository.Seed{}, err
		}
		out.Projects = append(out.Projects, g.project(i))
	}
	for i := range g.cfg.Developers + g.cfg.Others {
		if err := ctx.Err(); err != nil {
			return repository.Seed{}, err
		}
		role := model.RoleDeveloper
		if i >= g.cfg.Developers {
			role = otherRoles[g.rng.IntN(len(otherRoles))]
		}
		out.Users = append(out.Users, g.user(i, role))
	}
	return out, nil
}

func (g *Generator) project(i int) model.Project {
	return model.Project{
		ID:             g.id(),
		Name:           fmt.Sprintf("Project %d", i+1),
		RequiredSkills: g.skills(1 + g.rng.IntN(maxRequiredSkills)),
	}
}

func (g *Generator) user(i int, role string) model.Candidate {
	u := model.Candidate{
		ID:              g.id(),
		Name:            fmt.Sprintf("%s %d", strings.ToLower(role), i+1),
		Role:            role,
		Skills:          g.mixedCase(g.skills(g.rng.IntN(g.cfg.MaxSkills + 1))),
		ExperienceYears: round1(g.rng.Float64() * maxExperience),
		CurrentWorkload: g.rng.IntN(maxWorkload + 1),
	}
	if g.rng.IntN(100) >= unratedPercent {
		r := round1(1 + g.rng.Float64()*4)
		u.PerformanceRating = &r
	}
	return u
}

func (g *Generator) id() string {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// skills picks n distinct skills.
func (g *Generator) skills(n int) []string {
	n = min(n, len(Skills))
	out := make([]string, 0, n)
	for _, idx := range g.rng.Perm(len(Skills))[:n] {
		out = append(out, Skills[idx])
	}
	return out
}

// mixedCase upper-cases the first letter of some skills; matching is case-insensitive.
func (g *Generator) mixedCase(in []string) []string {
	for i, s := range in {
		if g.rng.IntN(2) == 0 {
			in[i] = strings.ToUpper(s[:1]) + s[1:]
		}
	}
	return in
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
