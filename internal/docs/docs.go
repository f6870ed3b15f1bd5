// Package docs keeps spec records in sync with their workflow documents
// on disk. Each tracked phase has one markdown document under the
// configured documents directory; Refresh captures file metadata into the
// spec's file references so staleness is visible from status output.
package docs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/ctxutil"
	"github.com/mrz1836/specflow/internal/domain"
	"github.com/mrz1836/specflow/internal/errors"
	"github.com/mrz1836/specflow/internal/workflow"
)

// maxConcurrentRefreshes bounds parallel document scans in RefreshAll.
const maxConcurrentRefreshes = 4

// documentFiles maps tracked phases to their document file names.
//
//nolint:gochecknoglobals // read-only lookup table
var documentFiles = map[constants.Phase]string{
	constants.PhaseRequirements: "requirements.md",
	constants.PhaseDesign:       "design.md",
	constants.PhaseTasks:        "tasks.md",
}

// Refresher scans workflow documents and records their metadata on specs.
type Refresher struct {
	engine *workflow.Engine
	dir    string
	logger zerolog.Logger
}

// NewRefresher creates a Refresher rooted at the given documents directory.
// Documents for a spec live at <dir>/<name>/<phase>.md.
func NewRefresher(engine *workflow.Engine, dir string, logger zerolog.Logger) *Refresher {
	return &Refresher{
		engine: engine,
		dir:    dir,
		logger: logger.With().Str("component", "docs").Logger(),
	}
}

// Refresh scans the documents for one spec and stores their metadata.
// Missing documents are recorded with Exists=false rather than treated as
// errors; a spec early in its workflow has no documents yet.
func (r *Refresher) Refresh(ctx context.Context, name string) (*domain.SpecRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := workflow.ValidateName(name); err != nil {
		return nil, err
	}

	refs := make(map[string]domain.FileRef, len(documentFiles))
	for _, phase := range constants.TrackedPhases() {
		fileName := documentFiles[phase]
		path := filepath.Join(r.dir, name, fileName)
		refs[phase.String()] = r.scanDocument(path)
	}

	rec, err := r.engine.UpdateFileRefs(ctx, name, refs)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("spec", name).
		Int("documents", len(refs)).
		Msg("refreshed document references")

	return rec, nil
}

// RefreshAll refreshes documents for every spec, scanning a bounded number
// concurrently. Each spec's refresh is independent; the first failure
// cancels the remaining scans.
func (r *Refresher) RefreshAll(ctx context.Context) (int, error) {
	specs, err := r.engine.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list specs for refresh")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRefreshes)

	for _, spec := range specs {
		name := spec.Name
		g.Go(func() error {
			_, refreshErr := r.Refresh(gctx, name)
			return refreshErr
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(specs), nil
}

// scanDocument stats a document path and builds its file reference.
// Stat failures other than non-existence are treated as missing; the
// reference records what could be observed.
func (r *Refresher) scanDocument(path string) domain.FileRef {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn().Err(err).Str("path", path).Msg("failed to stat document")
		}
		return domain.FileRef{Path: path, Exists: false}
	}
	return domain.FileRef{
		Path:         path,
		LastModified: info.ModTime().UTC(),
		Size:         info.Size(),
		Exists:       true,
	}
}
