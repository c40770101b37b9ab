package repository

import (
	"fmt"
	"os"

	"github.com/okian/devmatch/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// Seed is the fixture format shared by the memory store and the seed command.
type Seed struct {
	Projects []model.Project   `yaml:"projects"`
	Users    []model.Candidate `yaml:"users"`
}

// Validate checks that every record has a unique, non-empty id.
func (s Seed) Validate() error {
	projects := make(map[string]struct{}, len(s.Projects))
	for i, p := range s.Projects {
		if p.ID == "" {
			return fmt.Errorf("%w: project #%d has no id", ErrInvalidSeed, i)
		}
		if _, dup := projects[p.ID]; dup {
			return fmt.Errorf("%w: duplicate project id %q", ErrInvalidSeed, p.ID)
		}
		projects[p.ID] = struct{}{}
	}
	users := make(map[string]struct{}, len(s.Users))
	for i, u := range s.Users {
		if u.ID == "" {
			return fmt.Errorf("%w: user #%d has no id", ErrInvalidSeed, i)
		}
		if _, dup := users[u.ID]; dup {
			return fmt.Errorf("%w: duplicate user id %q", ErrInvalidSeed, u.ID)
		}
		users[u.ID] = struct{}{}
	}
	return nil
}

// ParseSeed decodes and validates a YAML fixture.
func ParseSeed(data []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if err := s.Validate(); err != nil {
		return Seed{}, err
	}
	return s, nil
}

// LoadSeed reads a YAML fixture from path.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// Marshal encodes the fixture as YAML.
func (s Seed) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode seed: %w", err)
	}
	return out, nil
}
