package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-word2vec-similarity/internal/adapter/store"
	"github.com/arturoeanton/go-word2vec-similarity/internal/port"
	"github.com/arturoeanton/go-word2vec-similarity/pkg/config"
)

type app struct {
	cfg *config.Config
}

// NewRootCmd builds the command tree. Running the root without a subcommand serves HTTP.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "word2vec",
		Short: "Nearest-neighbour word similarity over pretrained word2vec vectors",
		Long: `Serves GET /similarity?query=... returning the ten closest words or phrases
to the query in a pretrained word2vec space, scored by cosine similarity.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().String("model", "", "Path to the word2vec model (overrides WORD2VEC_MODEL_PATH)")
	rootCmd.PersistentFlags().Bool("text", false, "Model is in text format instead of binary")

	rootCmd.AddCommand(
		newServeCmd(a),
		newSimilarCmd(a),
		newMCPCmd(a),
	)

	return rootCmd
}

// init loads .env, config and flag overrides, and installs the default logger.
func (a *app) init(cmd *cobra.Command) error {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.ModelPath = model
	}
	if text, _ := cmd.Flags().GetBool("text"); text {
		cfg.ModelBinary = false
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}

	// stdout belongs to command output and the MCP stdio transport
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	a.cfg = cfg
	return nil
}

// loadTable loads the configured model once. A missing file is not an error:
// it returns a nil table so the service answers with fallbacks.
func (a *app) loadTable() (port.EmbeddingTable, error) {
	start := time.Now()

	kv, err := store.Load(a.cfg.ModelPath, store.LoadOptions{
		Binary: a.cfg.ModelBinary,
		Limit:  a.cfg.VocabLimit,
	})
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("pretrained model not found, similarity will echo queries", "path", a.cfg.ModelPath)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	slog.Info("model loaded",
		"path", a.cfg.ModelPath,
		"vocab_size", kv.Len(),
		"dimension", kv.Dimension(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return kv, nil
}
