package main

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"nuvana-site/internal/knowledge"
	"nuvana-site/internal/models"
	"nuvana-site/internal/repository"
	"nuvana-site/pkg/auth"
	"nuvana-site/pkg/config"
	"nuvana-site/pkg/logger"
	"nuvana-site/pkg/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const embeddedSource = "embedded"

func main() {
	var (
		knowledgeFile string
		cacheFile     string
		force         bool
	)

	root := &cobra.Command{
		Use:   "seed",
		Short: "Apply the schema and sync the Bloom knowledge base into Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), knowledgeFile, cacheFile, force)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&knowledgeFile, "knowledge", "", "knowledge base YAML file (defaults to KNOWLEDGE_FILE, then the embedded records)")
	root.Flags().StringVar(&cacheFile, "cache", filepath.Join("cmd", "seed", ".seed_cache.json"), "file remembering the last synced source")
	root.Flags().BoolVar(&force, "force", false, "sync even if the source is unchanged since the last run")

	root.AddCommand(&cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, knowledgeFile, cacheFile string, force bool) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if knowledgeFile == "" {
		knowledgeFile = cfg.Knowledge.File
	}

	base := knowledge.Default()
	source := embeddedSource
	if knowledgeFile != "" {
		base, err = knowledge.LoadFile(knowledgeFile)
		if err != nil {
			return fmt.Errorf("failed to load knowledge base: %w", err)
		}
		source = knowledgeFile
	}
	sourceHash := baseHash(base)

	// Load cache
	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will sync anyway", zap.Error(err))
		cache = &CacheData{}
	}
	if !force && cache.Source == source && cache.Hash == sourceHash {
		logger.Info("Knowledge base unchanged since last sync, skipping",
			zap.String("source", source),
			zap.Time("synced_at", cache.SyncedAt),
		)
		return nil
	}

	// Connect to database
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	logger.Info("Starting knowledge base sync...", zap.String("source", source), zap.Int("records", base.Len()))

	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)
	changed, err := knowledgeRepo.Sync(ctx, base.Records())
	if err != nil {
		return fmt.Errorf("failed to sync knowledge base: %w", err)
	}

	stored, err := knowledgeRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read back knowledge base: %w", err)
	}
	if err := verifySynced(base.Records(), stored); err != nil {
		return err
	}

	cache.Source = source
	cache.Hash = sourceHash
	cache.SyncedAt = time.Now()
	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	}

	logger.Info("Knowledge base sync completed", zap.Int("changed", changed))
	return nil
}

// CacheData remembers the last knowledge source pushed to the database.
type CacheData struct {
	Source   string    `json:"source"`
	Hash     string    `json:"hash"`
	SyncedAt time.Time `json:"synced_at"`
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{}

	data, err := os.ReadFile(cacheFile)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cacheFile), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// baseHash folds the per-record content hashes in order.
func baseHash(base *knowledge.Base) string {
	h := sha256.New()
	for i, rec := range base.Records() {
		fmt.Fprintln(h, repository.ContentHash(i, rec))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// verifySynced checks that the stored rows hold the same records in the same
// order, since order decides which record wins a tie.
func verifySynced(want, got []models.KnowledgeRecord) error {
	if len(want) != len(got) {
		return fmt.Errorf("knowledge base sync mismatch: %d records loaded, %d stored", len(want), len(got))
	}
	for i := range want {
		if want[i].ID != got[i].ID {
			return fmt.Errorf("knowledge base sync mismatch at position %d: want %q, stored %q", i, want[i].ID, got[i].ID)
		}
		if !slices.Equal(want[i].Keywords, got[i].Keywords) || want[i].Answer != got[i].Answer {
			return fmt.Errorf("knowledge base sync mismatch: record %q differs from the loaded one", want[i].ID)
		}
	}
	return nil
}
