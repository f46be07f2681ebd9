package service

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// BackfillCacheName is written into the backfilled directory.
const BackfillCacheName = ".backfill_cache.json"

// ProcessedFile represents a backfilled file in the cache
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	Route       string    `json:"route"`
	ProcessedAt time.Time `json:"processed_at"`
}

// BackfillCache stores which files were already ingested, keyed by path.
type BackfillCache struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"`
}

type BackfillStats struct {
	Ingested int
	Skipped  int
	Failed   int
	Routes   map[string]int
}

type BackfillService struct {
	ingest *IngestService
	logger *zap.Logger
}

func NewBackfillService(ingest *IngestService, logger *zap.Logger) *BackfillService {
	return &BackfillService{
		ingest: ingest,
		logger: logger,
	}
}

// Run ingests every file below dir once. Files whose md5 matches the cache
// entry are skipped; changed files are ingested again.
func (s *BackfillService) Run(ctx context.Context, dir string, force bool) (*BackfillStats, error) {
	cacheFile := filepath.Join(dir, BackfillCacheName)
	cache, err := loadBackfillCache(cacheFile)
	if err != nil {
		s.logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = &BackfillCache{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	stats := &BackfillStats{Routes: make(map[string]int)}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != dir && (d.Name() == processedDirName || d.Name() == failedDirName) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !candidate(d.Name()) {
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		hash, err := fileHash(path)
		if err != nil {
			s.logger.Warn("Failed to calculate file hash, will process anyway", zap.String("path", rel), zap.Error(err))
		} else if cached, ok := cache.ProcessedFiles[rel]; ok && !force {
			if cached.FileHash == hash {
				stats.Skipped++
				return nil
			}
			s.logger.Info("File changed, reprocessing", zap.String("path", rel))
		}

		up, err := ReadUpload(path)
		if err != nil {
			s.logger.Warn("Failed to read file", zap.String("path", rel), zap.Error(err))
			stats.Failed++
			return nil
		}

		res := s.ingest.IngestBytes(ctx, up, Identity{})
		stats.Ingested++
		stats.Routes[res.Route]++

		if hash != "" {
			cache.ProcessedFiles[rel] = ProcessedFile{
				FilePath:    rel,
				FileHash:    hash,
				Route:       res.Route,
				ProcessedAt: time.Now().UTC(),
			}
		}
		return nil
	})

	if err := saveBackfillCache(cacheFile, cache); err != nil {
		s.logger.Warn("Failed to save cache", zap.Error(err))
	}
	if walkErr != nil {
		return stats, fmt.Errorf("backfill %s: %w", dir, walkErr)
	}

	s.logger.Info("Backfill completed",
		zap.Int("ingested", stats.Ingested),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func loadBackfillCache(cacheFile string) (*BackfillCache, error) {
	cache := &BackfillCache{ProcessedFiles: make(map[string]ProcessedFile)}

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
	if cache.ProcessedFiles == nil {
		cache.ProcessedFiles = make(map[string]ProcessedFile)
	}
	return cache, nil
}

func saveBackfillCache(cacheFile string, cache *BackfillCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
