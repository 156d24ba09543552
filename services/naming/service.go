package naming

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/enum"
	"github.com/customeros/mailharvest/internal/models"
	"github.com/customeros/mailharvest/internal/utils"
)

const unknownProvider = "unknown"

type nameResolverService struct{}

func NewNameResolverService() interfaces.NameResolverService {
	return &nameResolverService{}
}

// Resolve computes the final output filename for every classified attachment.
//
// In latest mode only the newest attachment per (base name, extension) key
// survives; messages are walked newest-first so the first claim wins. In all
// mode every attachment survives and collisions are resolved with an
// incrementing numeric suffix against both the output directory and the
// names already produced this run.
func (s *nameResolverService) Resolve(ctx context.Context, messages []*models.AcceptedMessage, policy interfaces.NamingPolicy, store interfaces.FileStore) ([]interfaces.ResolvedFile, int) {
	if policy.Mode == enum.ExtractionModeLatest {
		// Upstream already sorts newest-first; re-sorting here keeps the
		// latest-wins rule independent of the caller.
		sorted := make([]*models.AcceptedMessage, len(messages))
		copy(sorted, messages)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ReceivedAt.After(sorted[j].ReceivedAt)
		})
		messages = sorted
	}

	claimedKeys := make(map[string]bool)
	producedNames := make(map[string]bool)

	var files []interfaces.ResolvedFile
	skipped := 0

	for _, msg := range messages {
		prefix := msg.ProviderLabel
		if prefix == "" {
			prefix = unknownProvider
		}

		for _, attachment := range msg.Documents {
			original := utils.CleanFilename(attachment.Filename)
			ext := utils.FileExtension(original)
			suffix := s.suffixToken(policy, msg)

			var finalName string
			if policy.Mode == enum.ExtractionModeLatest {
				key := fileKey(original, ext)
				if claimedKeys[key] {
					// an older duplicate of a file type already claimed
					skipped++
					continue
				}
				claimedKeys[key] = true

				switch policy.Format {
				case enum.NamingFormatDate, enum.NamingFormatYear:
					finalName = prefix + suffix + ext
				default:
					finalName = prefix + "_" + original
				}
			} else {
				switch policy.Format {
				case enum.NamingFormatOriginal:
					finalName = prefix + "_" + original
				default:
					finalName = prefix + suffix + ext
				}
				finalName = s.resolveCollision(policy.SaveFolder, finalName, producedNames, store)
				producedNames[finalName] = true
			}

			files = append(files, interfaces.ResolvedFile{
				Filename: finalName,
				Path:     filepath.Join(policy.SaveFolder, finalName),
				Content:  attachment.Content,
			})
		}
	}

	return files, skipped
}

func (s *nameResolverService) suffixToken(policy interfaces.NamingPolicy, msg *models.AcceptedMessage) string {
	switch policy.Format {
	case enum.NamingFormatDate:
		return msg.ReceivedAt.Format("2006-01-02")
	case enum.NamingFormatYear:
		return msg.ReceivedAt.Format("2006")
	case enum.NamingFormatCustom:
		if policy.CustomSuffix != "" {
			return policy.CustomSuffix
		}
		return "custom"
	default:
		return ""
	}
}

// fileKey groups attachments that represent the same logical document: the
// filename stem up to the first underscore plus the extension, lower-cased.
// Known false-positive risk: unrelated files sharing a prefix before an
// underscore collapse into one key; kept for compatibility with existing
// provider naming conventions.
func fileKey(filename, ext string) string {
	stem := utils.FileStem(filename)
	if idx := strings.Index(stem, "_"); idx >= 0 {
		stem = stem[:idx]
	}
	return strings.ToLower(stem + ext)
}

func (s *nameResolverService) resolveCollision(dir, candidate string, producedNames map[string]bool, store interfaces.FileStore) string {
	taken := func(name string) bool {
		if producedNames[name] {
			return true
		}
		return store != nil && store.Exists(dir, name)
	}

	if !taken(candidate) {
		return candidate
	}

	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(candidate, ext)
	for counter := 1; ; counter++ {
		next := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if !taken(next) {
			return next
		}
	}
}
