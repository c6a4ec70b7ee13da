package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

// The conversion script is embedded so the command works when installed via
// `go install`. Requires uv (https://docs.astral.sh/uv/) and Python >=3.10.
//
//go:embed convert-model.py
var convertScript []byte

func downloadModelCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "download-model",
		Short: "Download and convert the local embedding model to ONNX",
		Long: `Download the configured sentence-transformers embedding model and
convert it to ONNX format under the model cache directory, so the service
can embed locally without a remote endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownloadModel(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runDownloadModel(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	model := cfg.EmbeddingModel()
	dest := filepath.Join(cfg.EmbeddingCacheDir(), model)

	// Skip if already converted.
	if _, err := os.Stat(filepath.Join(dest, "tokenizer.json")); err == nil {
		if _, err := os.Stat(filepath.Join(dest, "onnx", "model.onnx")); err == nil {
			fmt.Printf("Model already present at %s\n", dest)
			return nil
		}
	}

	tmp, err := os.CreateTemp("", "convert-model-*.py")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(convertScript); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	fmt.Printf("Converting %s to %s...\n", model, dest)

	delay := 2 * time.Second
	for i := range 4 {
		if i > 0 {
			fmt.Fprintf(os.Stderr, "retry in %s: %v\n", delay, err)
			time.Sleep(delay)
			delay *= 2
		}

		convert := exec.Command("uv", "run", tmp.Name(), model, dest)
		convert.Stdout = os.Stdout
		convert.Stderr = os.Stderr

		if err = convert.Run(); err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("convert model: %w", err)
	}

	fmt.Printf("Model ready at %s\n", dest)
	return nil
}
