// Package seed carries the built-in exercise vocabulary.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/liftlog/liftlog-api/internal/app/exercises"
)

//go:embed exercises.yaml
var exercisesYAML []byte

type Category struct {
	Name      string   `yaml:"name" json:"name"`
	Exercises []string `yaml:"exercises" json:"exercises"`
}

type document struct {
	Categories []Category `yaml:"categories"`
}

// Categories returns the built-in exercises grouped by muscle group, in file order.
func Categories() ([]Category, error) {
	return parse(exercisesYAML)
}

func parse(b []byte) ([]Category, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse exercise seed: %w", err)
	}
	for _, c := range doc.Categories {
		if c.Name == "" || len(c.Exercises) == 0 {
			return nil, fmt.Errorf("parse exercise seed: category %q has no name or exercises", c.Name)
		}
	}
	return doc.Categories, nil
}

type Resolver interface {
	Resolve(ctx context.Context, raw string) (exercises.Resolution, error)
}

// Apply resolves every built-in exercise so that each is present in the vocabulary.
// Existing spellings win. It reports how many entries were appended.
func Apply(ctx context.Context, r Resolver) (int, error) {
	cats, err := Categories()
	if err != nil {
		return 0, err
	}
	added := 0
	for _, c := range cats {
		for _, name := range c.Exercises {
			res, err := r.Resolve(ctx, name)
			if err != nil {
				return added, fmt.Errorf("seed %q: %w", name, err)
			}
			if res.Degraded {
				return added, fmt.Errorf("seed %q: vocabulary unavailable", name)
			}
			if res.Created {
				added++
			}
		}
	}
	return added, nil
}
