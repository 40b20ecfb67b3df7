package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"quiz-ladders/internal/app"
	"quiz-ladders/internal/config"
	"quiz-ladders/internal/domain"
)

// NewSeedCmd imports YAML or JSON test documents into the configured store.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file-or-dir>...",
		Short: "Import test documents (YAML or JSON) into the configured storage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, args)
		},
	}
}

func runSeed(ctx context.Context, configPath string, paths []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	store, closeStore, err := openTestStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}
	catalog := app.NewCatalogService(newTestRepository(cfg, store, redisClient))

	files, err := seedFiles(paths)
	if err != nil {
		return err
	}
	saved, err := seedTests(ctx, catalog, files)
	log.Printf("seeded %d tests", saved)
	return err
}

// seedFiles expands directories into the .json, .yaml and .yml files they contain.
func seedFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".json", ".yaml", ".yml":
				if !e.IsDir() {
					files = append(files, filepath.Join(p, e.Name()))
				}
			}
		}
	}
	return files, nil
}

// seedTests saves every document of every file. A failing document is logged and the
// import continues; the first failure is returned.
func seedTests(ctx context.Context, catalog *app.CatalogService, files []string) (int, error) {
	var (
		saved    int
		firstErr error
	)
	fail := func(err error) {
		log.Printf("seed: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	for _, file := range files {
		tests, err := readTestDocuments(file)
		if err != nil {
			fail(err)
			continue
		}
		for _, t := range tests {
			location, err := catalog.SaveTest(ctx, t)
			if err != nil {
				fail(fmt.Errorf("%s: %w", file, err))
				continue
			}
			log.Printf("seed: %s -> %s", t.ID, location)
			saved++
		}
	}
	return saved, firstErr
}

// readTestDocuments decodes one or more documents from file. JSON files parse as YAML.
// A single document without an id takes the file name.
func readTestDocuments(file string) ([]domain.Test, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tests []domain.Test
	dec := yaml.NewDecoder(f)
	for {
		var t domain.Test
		err := dec.Decode(&t)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
		tests = append(tests, t)
	}
	if len(tests) == 1 && tests[0].ID == "" {
		tests[0].ID = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return tests, nil
}
