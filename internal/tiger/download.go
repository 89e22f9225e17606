package tiger

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tiger-clip/internal/fetcher"
)

// Materialize ensures the shapefile behind url is present under cacheDir and
// returns the path to the extracted .shp file. Cached archives are reused:
// TIGER archives for a given year never change, so the URL's file name is a
// sufficient cache key.
func Materialize(ctx context.Context, f fetcher.Fetcher, url, cacheDir string) (string, error) {
	log := zap.L().With(
		zap.String("component", "tiger.materialize"),
		zap.String("url", url),
	)

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", eris.Wrap(err, "tiger: create cache dir")
	}

	parts := strings.Split(url, "/")
	zipName := parts[len(parts)-1]
	zipPath := filepath.Join(cacheDir, zipName)

	if info, err := os.Stat(zipPath); err == nil && info.Size() > 0 {
		log.Debug("archive already cached, skipping download", zap.String("path", zipPath))
	} else {
		log.Info("downloading TIGER archive")
		// Download to a temp name first so an interrupted transfer never
		// poisons the cache.
		partPath := zipPath + ".part"
		if _, err := f.DownloadToFile(ctx, url, partPath); err != nil {
			_ = os.Remove(partPath)
			return "", eris.Wrap(err, "tiger: download archive")
		}
		if err := os.Rename(partPath, zipPath); err != nil {
			return "", eris.Wrap(err, "tiger: finalize archive")
		}
	}

	extractDir := filepath.Join(cacheDir, strings.TrimSuffix(zipName, ".zip"))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "tiger: create extract dir")
	}

	if _, err := fetcher.ExtractZIP(zipPath, extractDir); err != nil {
		return "", eris.Wrap(err, "tiger: extract archive")
	}

	shpPath, err := findFileByExt(extractDir, ".shp")
	if err != nil {
		return "", eris.Wrap(err, "tiger: find .shp file")
	}

	log.Debug("shapefile materialized", zap.String("path", shpPath))
	return shpPath, nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
