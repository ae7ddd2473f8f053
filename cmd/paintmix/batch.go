package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/colormix/paintmix/pkg/engine"
	"github.com/colormix/paintmix/pkg/recipe"
)

// batchConfig describes a set of recipe searches to run in one invocation —
// the YAML counterpart to issuing several "search" commands by hand, for
// scripted/CI use.
type batchConfig struct {
	Catalog string       `yaml:"catalog"`
	Targets []batchEntry `yaml:"targets"`
}

type batchEntry struct {
	Name     string `yaml:"name"`
	RGB      [3]int `yaml:"rgb"`
	Strategy string `yaml:"strategy"`
}

type batchResult struct {
	Name    string          `json:"name"`
	Recipes []recipe.Recipe `json:"recipes"`
	Error   string          `json:"error,omitempty"`
}

func runBatch(_ context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("batch: config file path required")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var cfg batchConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("batch: parsing config: %w", err)
	}

	pool, err := loadCatalogDir(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("batch: loading catalog: %w", err)
	}

	e := engine.New()
	results := make([]batchResult, 0, len(cfg.Targets))

	for _, target := range cfg.Targets {
		strategy, err := recipe.ParseStrategy(target.Strategy)
		if err != nil {
			results = append(results, batchResult{Name: target.Name, Error: err.Error()})
			continue
		}

		reflectance, err := e.ReconstructReflectance(
			uint8(target.RGB[0]), uint8(target.RGB[1]), uint8(target.RGB[2]),
		)
		if err != nil {
			results = append(results, batchResult{Name: target.Name, Error: err.Error()})
			continue
		}

		recipes, err := e.RecipeSearch(reflectance, pool, strategy)
		if err != nil {
			results = append(results, batchResult{Name: target.Name, Error: err.Error()})
			continue
		}
		results = append(results, batchResult{Name: target.Name, Recipes: recipes})
	}

	return json.NewEncoder(os.Stdout).Encode(results)
}
