package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const ImportBatchSize = 500

type ImportFormat string

const (
	ImportJSON ImportFormat = "json"
	ImportCSV  ImportFormat = "csv"
	ImportYAML ImportFormat = "yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported ingredient file format; use .json, .csv, .yaml or .yml")

// FormatFromPath picks the parser from the file extension.
func FormatFromPath(path string) (ImportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ImportJSON, nil
	case ".csv":
		return ImportCSV, nil
	case ".yaml", ".yml":
		return ImportYAML, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ParsedIngredients holds the usable rows of an import file and the number
// of rows dropped for missing fields or repeating an earlier row.
type ParsedIngredients struct {
	Rows    []*types.Ingredient
	Invalid int
}

func (p *ParsedIngredients) add(name, unit string, seen map[[2]string]struct{}) {
	name, unit = strings.TrimSpace(name), strings.TrimSpace(unit)
	if name == "" || unit == "" {
		p.Invalid++
		return
	}
	k := [2]string{name, unit}
	if _, dup := seen[k]; dup {
		p.Invalid++
		return
	}
	seen[k] = struct{}{}
	p.Rows = append(p.Rows, &types.Ingredient{Name: name, MeasurementUnit: unit})
}

// ParseIngredients reads a JSON array or YAML list of
// {name, measurement_unit} objects, or headerless CSV rows "name,unit".
func ParseIngredients(r io.Reader, format ImportFormat) (ParsedIngredients, error) {
	var out ParsedIngredients
	seen := map[[2]string]struct{}{}
	switch format {
	case ImportJSON, ImportYAML:
		var items []types.Ingredient
		var err error
		if format == ImportJSON {
			err = json.NewDecoder(r).Decode(&items)
		} else {
			err = yaml.NewDecoder(r).Decode(&items)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return out, fmt.Errorf("decode %s: %w", format, err)
		}
		for _, it := range items {
			out.add(it.Name, it.MeasurementUnit, seen)
		}
	case ImportCSV:
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		for {
			rec, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return out, fmt.Errorf("decode csv: %w", err)
			}
			if len(rec) < 2 {
				out.Invalid++
				continue
			}
			out.add(rec[0], rec[1], seen)
		}
	default:
		return out, ErrUnsupportedFormat
	}
	return out, nil
}

type ImportReport struct {
	Cleared int64
	Created int64
	Skipped int64
}

type IngredientImporter interface {
	Import(ctx context.Context, parsed ParsedIngredients, clear bool) (ImportReport, error)
}

type ingredientImporter struct {
	db             *gorm.DB
	log            *logger.Logger
	ingredientRepo repos.IngredientRepo
	catalog        IngredientService
}

func NewIngredientImporter(db *gorm.DB, log *logger.Logger, ingredientRepo repos.IngredientRepo, catalog IngredientService) IngredientImporter {
	return &ingredientImporter{
		db:             db,
		log:            log.With("service", "IngredientImporter"),
		ingredientRepo: ingredientRepo,
		catalog:        catalog,
	}
}

// Import optionally clears the catalog, then inserts rows in batches,
// skipping pairs that already exist. The whole run is one transaction.
func (ii *ingredientImporter) Import(ctx context.Context, parsed ParsedIngredients, clear bool) (ImportReport, error) {
	report := ImportReport{Skipped: int64(parsed.Invalid)}
	err := ii.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if clear {
			n, err := ii.ingredientRepo.DeleteAll(dbc)
			if err != nil {
				return fmt.Errorf("clear catalog: %w", err)
			}
			report.Cleared = n
		}
		for start := 0; start < len(parsed.Rows); start += ImportBatchSize {
			end := start + ImportBatchSize
			if end > len(parsed.Rows) {
				end = len(parsed.Rows)
			}
			n, err := ii.ingredientRepo.CreateIgnoreDuplicates(dbc, parsed.Rows[start:end], ImportBatchSize)
			if err != nil {
				return fmt.Errorf("insert batch at row %d: %w", start, err)
			}
			report.Created += n
			report.Skipped += int64(end-start) - n
			ii.log.Debug("ingredient batch imported", "processed", end, "created", n)
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}
	if ii.catalog != nil {
		if err := ii.catalog.InvalidateCache(ctx); err != nil {
			ii.log.Warn("ingredient cache purge failed", "error", err)
		}
	}
	ii.log.Info("ingredients imported", "created", report.Created, "skipped", report.Skipped, "cleared", report.Cleared)
	return report, nil
}
