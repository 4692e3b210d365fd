package catalog

import (
	"context"
	"errors"
	"strings"

	"dataset-manifest/core/catalog"
	"dataset-manifest/core/dataset"
	"dataset-manifest/core/fingerprint"

	"go.uber.org/zap"
)

// ErrInvalidHash is returned for lookups with a malformed fingerprint.
var ErrInvalidHash = errors.New("hash must be 64 hexadecimal characters")

// Store is the subset of the catalog the API reads.
type Store interface {
	ByID(ctx context.Context, id int64) (dataset.Record, error)
	ByHash(ctx context.Context, hash string) ([]dataset.Record, error)
	ByPartition(ctx context.Context, partition string) ([]dataset.Record, error)
}

var _ Store = (*catalog.Catalog)(nil)

// Image is the API view of a record.
type Image struct {
	dataset.Record
	Partition string `json:"Partition"`
}

// Service answers catalog lookups.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Image returns one record by id.
func (s *Service) Image(ctx context.Context, id int64) (Image, error) {
	r, err := s.store.ByID(ctx, id)
	if err != nil {
		return Image{}, err
	}
	return view(r), nil
}

// ImagesByHash returns the records whose file has the given fingerprint.
func (s *Service) ImagesByHash(ctx context.Context, hash string) ([]Image, error) {
	hash = strings.ToLower(hash)
	if !fingerprint.Valid(hash) {
		return nil, ErrInvalidHash
	}
	recs, err := s.store.ByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	return views(recs), nil
}

// Partition returns the records of one partition.
func (s *Service) Partition(ctx context.Context, partition string) ([]Image, error) {
	recs, err := s.store.ByPartition(ctx, partition)
	if err != nil {
		return nil, err
	}
	return views(recs), nil
}

func view(r dataset.Record) Image {
	return Image{Record: r, Partition: r.Partition}
}

func views(recs []dataset.Record) []Image {
	out := make([]Image, 0, len(recs))
	for _, r := range recs {
		out = append(out, view(r))
	}
	return out
}
