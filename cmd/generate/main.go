package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rxtech-lab/argo-pipeline/internal/config"
	"github.com/rxtech-lab/argo-pipeline/mocks"
	"gopkg.in/yaml.v3"
)

const (
	outputDir        = "./config"
	schemaName       = "pipeline-config.json"
	sampleConfigName = "pipeline-config.yaml"
	sampleDataName   = "sample_ohlcv.csv"
	sampleDataBars   = 24 * 30
)

func main() {
	schemaPath := filepath.Join(outputDir, schemaName)
	sampleConfigPath := filepath.Join(outputDir, sampleConfigName)
	sampleDataPath := filepath.Join(outputDir, sampleDataName)

	if err := generateSchemaFile(schemaPath); err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	cfg := config.Default()
	cfg.Input.Path = sampleDataPath

	created, err := generateSampleConfig(cfg, sampleConfigPath, schemaName)
	if err != nil {
		log.Fatalf("Failed to generate sample config: %v", err)
	}

	if created {
		log.Printf("Sample config successfully generated at %s", sampleConfigPath)
	}

	created, err = generateSampleData(sampleDataPath, sampleDataBars)
	if err != nil {
		log.Fatalf("Failed to generate sample data: %v", err)
	}

	if created {
		log.Printf("Sample data successfully generated at %s", sampleDataPath)
	}
}

// generateSchemaFile writes the JSON schema of the pipeline config, replacing any existing file.
func generateSchemaFile(path string) error {
	schemaJSON, err := config.Schema()
	if err != nil {
		return fmt.Errorf("failed to build schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes cfg as YAML with a schema reference. An existing file is kept.
func generateSampleConfig(cfg config.Config, path string, schema string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte("# yaml-language-server: $schema="+schema+"\n"), yamlBytes...)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, yamlBytes, 0644); err != nil {
		return false, fmt.Errorf("failed to write sample config to file: %w", err)
	}

	return true, nil
}

// generateSampleData writes count hourly bars of synthetic OHLCV data as CSV. An existing file is kept.
func generateSampleData(path string, count int) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	generatorConfig := mocks.DefaultConfig()
	generatorConfig.Interval = time.Hour
	generatorConfig.Count = count
	generatorConfig.Volatility = 0.01

	rs := mocks.NewDataGenerator(42).Generate(generatorConfig)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := mocks.WriteCSV(path, rs); err != nil {
		return false, fmt.Errorf("failed to write sample data: %w", err)
	}

	return true, nil
}
