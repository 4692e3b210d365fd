package ava

import (
	"context"
	"fmt"
	"strconv"

	"dataset-manifest/core/dataset"
	"dataset-manifest/core/fingerprint"
	"dataset-manifest/core/reconcile"
	"dataset-manifest/core/walker"

	"go.uber.org/zap"
)

// Hit is a fingerprinted image file waiting to be committed.
type Hit struct {
	ImageID  int64
	FileHash string
	FileName string
	Entry    string
}

// Adapter links image files to label records.
type Adapter struct {
	store  *dataset.Store
	policy reconcile.DuplicatePolicy
	logger *zap.Logger
}

// NewAdapter creates an adapter committing into store.
func NewAdapter(store *dataset.Store, policy reconcile.DuplicatePolicy, logger *zap.Logger) *Adapter {
	return &Adapter{store: store, policy: policy, logger: logger}
}

// Name implements reconcile.Adapter.
func (a *Adapter) Name() string { return "ava" }

// Process derives the image id from the file name and fingerprints the file.
func (a *Adapter) Process(ctx context.Context, p walker.Partition, f walker.File) (Hit, error) {
	id, err := strconv.ParseInt(f.Stem(), 10, 64)
	if err != nil {
		return Hit{}, &reconcile.KeyParseError{Partition: p.Key, Entry: f.Path, Err: err}
	}

	rc, err := f.Open()
	if err != nil {
		return Hit{}, err
	}
	defer rc.Close()

	sum, _, err := fingerprint.Reader(rc)
	if err != nil {
		return Hit{}, fmt.Errorf("failed to fingerprint %s: %w", f.Path, err)
	}
	return Hit{ImageID: id, FileHash: sum, FileName: f.Name, Entry: f.Path}, nil
}

// Commit applies the hits of one partition to the store and returns the
// matched records in file order.
func (a *Adapter) Commit(p walker.Partition, hits []Hit) []dataset.Record {
	log := a.logger.With(zap.String("partition", p.Key))
	out := make([]dataset.Record, 0, len(hits))

	for _, h := range hits {
		existing, ok := a.store.Get(h.ImageID)
		if !ok {
			log.Warn("No label for image", zap.String("entry", h.Entry), zap.Int64("image_id", h.ImageID))
			continue
		}

		if existing.Matched() {
			dup := &reconcile.DuplicateMatchError{
				ID:        h.ImageID,
				Partition: p.Key,
				Entry:     h.Entry,
				Existing:  existing.Partition + "/" + existing.FileName,
			}
			apply, err := a.policy.Resolve(dup)
			if err != nil {
				log.Warn("Skipping file", zap.String("entry", h.Entry), zap.Int64("image_id", h.ImageID), zap.Error(err))
				continue
			}
			if !apply {
				log.Info("Keeping earlier match", zap.String("entry", h.Entry), zap.Int64("image_id", h.ImageID),
					zap.String("existing", dup.Existing))
				continue
			}
			log.Debug("Replacing earlier match", zap.String("entry", h.Entry), zap.Int64("image_id", h.ImageID),
				zap.String("existing", dup.Existing))
		}

		rec, ok := a.store.SetMatch(h.ImageID, h.FileHash, h.FileName, p.Key)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}
