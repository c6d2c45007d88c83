// Package agent sweeps workbooks through the normalization pipeline and
// registers the resulting tables. Each sheet is an independent pipeline
// invocation: one sheet failing never aborts its siblings.
package agent

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sheetsense/adapters/excel"
	"sheetsense/domain/table"
	"sheetsense/internal/logging"
	"sheetsense/internal/normalize"
	"sheetsense/internal/registry"
	"sheetsense/ports"
)

// workbookExtensions are the file types picked up by a directory sweep.
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// Agent runs the pipeline over whole workbooks and directories.
type Agent struct {
	normalizer *normalize.Normalizer
	registry   *registry.Registry
	repository ports.TableRepository
	logger     *logging.Logger
}

// NewAgent creates an agent around a pipeline and a registry.
func NewAgent(normalizer *normalize.Normalizer, reg *registry.Registry) *Agent {
	return &Agent{
		normalizer: normalizer,
		registry:   reg,
		logger:     logging.Default.WithComponent("Agent"),
	}
}

// WithRepository attaches an optional persistence adapter. Registered
// tables are also saved through it.
func (a *Agent) WithRepository(repo ports.TableRepository) *Agent {
	a.repository = repo
	return a
}

// ProcessDirectory sweeps every workbook in dir through the pipeline and
// returns all tables produced. Workbook-level failures are logged and
// skipped; the sweep only fails if the directory cannot be listed.
func (a *Agent) ProcessDirectory(ctx context.Context, dir string) ([]*table.TableInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// Office lock files start with ~$.
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if workbookExtensions[strings.ToLower(filepath.Ext(name))] {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)

	a.logger.Info("Sweeping %d workbooks in %s", len(paths), dir)

	var all []*table.TableInfo
	for _, path := range paths {
		infos, err := a.ProcessWorkbook(ctx, path)
		if err != nil {
			a.logger.Error("Skipping workbook %s: %v", path, err)
			continue
		}
		all = append(all, infos...)
	}

	a.logger.Info("Sweep complete: %d normalized tables", len(all))
	return all, nil
}

// ProcessWorkbook runs every sheet of one workbook through the pipeline
// concurrently. Per-sheet failures are logged and skipped; the call only
// fails if the workbook itself cannot be opened.
func (a *Agent) ProcessWorkbook(ctx context.Context, path string) ([]*table.TableInfo, error) {
	reader := excel.NewWorkbookReader(path)
	sheets, err := reader.SheetNames()
	if err != nil {
		return nil, err
	}

	a.logger.Info("Processing %s (%d sheets)", filepath.Base(path), len(sheets))

	var mu sync.Mutex
	results := make([]*table.TableInfo, 0, len(sheets))

	g, ctx := errgroup.WithContext(ctx)
	for _, sheetName := range sheets {
		g.Go(func() error {
			info, err := a.ProcessSheet(ctx, path, sheetName)
			if err != nil {
				// Partial-failure isolation: the sheet's outcome is
				// reported, its siblings keep going.
				a.logger.Error("Sheet %q of %s failed: %v", sheetName, filepath.Base(path), err)
				return nil
			}
			mu.Lock()
			results = append(results, info)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Concurrent completion order is nondeterministic; restore workbook
	// sheet order for callers.
	order := make(map[string]int, len(sheets))
	for i, s := range sheets {
		order[s] = i
	}
	sort.Slice(results, func(i, j int) bool {
		return order[results[i].SheetName] < order[results[j].SheetName]
	})

	return results, nil
}

// ProcessSheet runs the full pipeline for one sheet and registers the
// result.
func (a *Agent) ProcessSheet(ctx context.Context, path, sheetName string) (*table.TableInfo, error) {
	reader := excel.NewWorkbookReader(path)
	grid, ranges, loadWarnings, err := reader.LoadSheet(sheetName)
	if err != nil {
		return nil, err
	}

	result, err := a.normalizer.Normalize(ctx, grid, ranges, sheetName)
	if err != nil {
		return nil, err
	}

	fileName := filepath.Base(path)
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	info := &table.TableInfo{
		ID:        uuid.New().String(),
		Name:      stem + "_" + sheetName,
		FileName:  fileName,
		SheetName: sheetName,
		Columns:   result.Table.Columns,
		Types:     result.Types,
		Header:    result.Header,
		Profiles:  result.Profiles,
		RowCount:  len(result.Table.Rows),
		Warnings:  append(loadWarnings, result.Warnings...),
		CreatedAt: time.Now().UTC(),
		Table:     result.Table,
	}

	a.registry.Add(info)
	if a.repository != nil {
		if err := a.repository.Save(ctx, info); err != nil {
			a.logger.Warn("Failed to persist table %s: %v", info.Name, err)
		}
	}

	a.logger.Info("Registered table %s (%d rows, %d columns)", info.Name, info.RowCount, len(info.Columns))
	return info, nil
}
