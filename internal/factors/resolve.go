package factors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/greenledger/pcfcalc/internal/cache"
	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/logging"
)

// SheetCache stores parsed material sheets between runs.
type SheetCache interface {
	Get(key string) (*cache.Entry, error)
	Set(key, source string, data json.RawMessage) error
}

// Sources names optional reference data files. Empty fields keep the
// built-in data.
type Sources struct {
	// Dataset is a YAML dataset overlaid on the defaults.
	Dataset string
	// MaterialsSheet is a CSV or XLSX sheet that replaces the material table.
	MaterialsSheet string
	// SheetIDBase numbers sheet rows; zero means DefaultSheetIDBase.
	SheetIDBase int
	// Cache, when set, keeps parsed sheets between runs.
	Cache SheetCache
}

// Resolve builds the reference data set described by src: defaults, then
// the dataset overlay, then the material sheet.
func Resolve(ctx context.Context, src Sources) (*Set, error) {
	set := Defaults()
	if src.Dataset != "" {
		loaded, err := LoadDataset(ctx, src.Dataset)
		if err != nil {
			return nil, err
		}
		set = loaded
	}
	if src.MaterialsSheet != "" {
		base := src.SheetIDBase
		if base == 0 {
			base = DefaultSheetIDBase
		}
		var (
			materials []emissions.MaterialFactor
			err       error
		)
		if src.Cache != nil {
			materials, err = loadCachedMaterialSheet(ctx, src.Cache, src.MaterialsSheet, base)
		} else {
			materials, err = LoadMaterialSheet(ctx, src.MaterialsSheet, base)
		}
		if err != nil {
			return nil, err
		}
		set = set.WithMaterials(materials)
	}
	return set, nil
}

// SheetCacheKey identifies one version of a sheet file: a changed size or
// modification time yields a new key.
func SheetCacheKey(path string, info os.FileInfo, idBase int) string {
	return cache.GenerateKey("material-sheet", path,
		strconv.FormatInt(info.Size(), 10),
		info.ModTime().UTC().Format(time.RFC3339Nano),
		strconv.Itoa(idBase))
}

func loadCachedMaterialSheet(ctx context.Context, c SheetCache, path string, idBase int) ([]emissions.MaterialFactor, error) {
	log := logging.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading material sheet %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	key := SheetCacheKey(abs, info, idBase)

	if entry, getErr := c.Get(key); getErr == nil {
		var materials []emissions.MaterialFactor
		if err = json.Unmarshal(entry.Data, &materials); err == nil && len(materials) > 0 {
			log.Debug().Ctx(ctx).
				Str("component", "factors").
				Str("operation", "load_sheet").
				Str("path", abs).
				Int("materials", len(materials)).
				Msg("material sheet cache hit")
			return materials, nil
		}
	}

	materials, err := LoadMaterialSheet(ctx, path, idBase)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(materials)
	if err != nil {
		return materials, nil
	}
	if err = c.Set(key, abs, data); err != nil && !errors.Is(err, cache.ErrDisabled) {
		log.Warn().Ctx(ctx).
			Str("component", "factors").
			Str("operation", "cache_sheet").
			Str("path", abs).
			Err(err).
			Msg("failed to cache material sheet")
	}
	return materials, nil
}
