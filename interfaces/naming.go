package interfaces

import (
	"context"

	"github.com/customeros/mailharvest/internal/enum"
	"github.com/customeros/mailharvest/internal/models"
)

// NamingPolicy is the filename derivation contract for one run.
type NamingPolicy struct {
	SaveFolder   string
	Mode         enum.ExtractionMode
	Format       enum.NamingFormat
	CustomSuffix string
}

// ResolvedFile pairs a classified attachment with its final output name.
type ResolvedFile struct {
	Filename string
	Path     string
	Content  []byte
}

type NameResolverService interface {
	// Resolve walks accepted messages newest-first and computes collision-free
	// final filenames per the policy. In latest mode, older duplicates of a
	// (base name, extension) key are dropped; the skipped count reports them.
	Resolve(ctx context.Context, messages []*models.AcceptedMessage, policy NamingPolicy, store FileStore) (files []ResolvedFile, skipped int)
}
