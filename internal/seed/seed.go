// Package seed creates members and chores listed in a YAML file at startup.
// Entries whose name already exists are left alone, so the file can be
// applied on every start.
package seed

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/choretracker/internal/clock"
	"github.com/dukerupert/choretracker/internal/model"
	"github.com/dukerupert/choretracker/internal/tracker"
	"github.com/dukerupert/choretracker/internal/wizard"
)

// File is the seed file layout.
type File struct {
	Members []string `yaml:"members"`
	Chores  []Entry  `yaml:"chores"`
}

// Entry is a wizard input plus an optional member name to assign.
type Entry struct {
	wizard.Input `yaml:",inline"`
	Member       string `yaml:"member"`
}

// Parse decodes a seed file.
func Parse(data []byte) (*File, error) {
	var f File
	if len(bytes.TrimSpace(data)) == 0 {
		return &f, nil
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed: %s: %w", path, err)
	}
	return f, nil
}

type ChoreNames interface {
	NameExists(name string) (bool, error)
}

type Members interface {
	Create(name string) (*model.Member, error)
	GetByName(name string) (*model.Member, error)
}

type ChoreCreator interface {
	Create(c model.Chore) (tracker.View, error)
}

// Result counts what Apply did.
type Result struct {
	MembersCreated int
	ChoresCreated  int
	ChoresSkipped  int
}

type Seeder struct {
	chores  ChoreNames
	members Members
	creator ChoreCreator
	clock   clock.Clock
	logger  *slog.Logger
}

func NewSeeder(chores ChoreNames, members Members, creator ChoreCreator, clk clock.Clock, logger *slog.Logger) *Seeder {
	return &Seeder{chores: chores, members: members, creator: creator, clock: clk, logger: logger}
}

// Apply creates the members and chores of f that do not exist yet. It stops
// at the first invalid entry.
func (s *Seeder) Apply(f *File) (Result, error) {
	var res Result

	for _, name := range f.Members {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		created, err := s.ensureMember(name)
		if err != nil {
			return res, err
		}
		if created {
			res.MembersCreated++
		}
	}

	today := s.clock.Today()
	for i, e := range f.Chores {
		exists, err := s.chores.NameExists(strings.TrimSpace(e.Name))
		if err != nil {
			return res, fmt.Errorf("seed: chore %q: %w", e.Name, err)
		}
		if exists {
			res.ChoresSkipped++
			continue
		}

		if member := strings.TrimSpace(e.Member); member != "" {
			if _, err := s.ensureMember(member); err != nil {
				return res, err
			}
			m, err := s.members.GetByName(member)
			if err != nil {
				return res, fmt.Errorf("seed: member %q: %w", member, err)
			}
			e.Person = &m.ID
		}

		c, err := wizard.Collect(e.Input, today)
		if err != nil {
			return res, fmt.Errorf("seed: chore %d (%q): %w", i+1, e.Name, err)
		}
		v, err := s.creator.Create(c)
		if err != nil {
			return res, fmt.Errorf("seed: chore %q: %w", e.Name, err)
		}
		s.logger.Info("seeded chore", "chore_id", v.ID, "name", v.Name)
		res.ChoresCreated++
	}
	return res, nil
}

func (s *Seeder) ensureMember(name string) (bool, error) {
	m, err := s.members.GetByName(name)
	if err != nil {
		return false, fmt.Errorf("seed: member %q: %w", name, err)
	}
	if m != nil {
		return false, nil
	}
	if _, err := s.members.Create(name); err != nil {
		return false, fmt.Errorf("seed: member %q: %w", name, err)
	}
	s.logger.Info("seeded member", "name", name)
	return true, nil
}
