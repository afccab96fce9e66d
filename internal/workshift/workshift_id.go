package workshift

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	workshifterrors "github.com/DenTeeth/PDCMS-BE-sub005/internal/workshift/errors"
)

const (
	prefixMorning   = "WKS_MORNING"
	prefixAfternoon = "WKS_AFTERNOON"
	prefixNight     = "WKS_NIGHT"
)

var afternoonFrom = NewTimeOfDay(12, 0)

// IDSource is the read side the generator needs. Repository satisfies it.
type IDSource interface {
	ListIDsByPrefix(ctx context.Context, prefix string) ([]string, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// PrefixFor encodes the category and the start-hour bucket.
func PrefixFor(start TimeOfDay, category Category) string {
	if category == CategoryNight {
		return prefixNight
	}
	if start < afternoonFrom {
		return prefixMorning
	}
	return prefixAfternoon
}

// CategoryFromID decodes the category a generated id was minted with.
func CategoryFromID(id string) (Category, bool) {
	switch {
	case strings.HasPrefix(id, prefixNight+"_"):
		return CategoryNight, true
	case strings.HasPrefix(id, prefixMorning+"_"), strings.HasPrefix(id, prefixAfternoon+"_"):
		return CategoryNormal, true
	default:
		return "", false
	}
}

type IDGenerator struct{}

// Generate returns <prefix>_<NN>, one past the highest suffix in use.
// The caller still has to survive a concurrent insert of the same id.
func (IDGenerator) Generate(ctx context.Context, src IDSource, start TimeOfDay, category Category) (string, error) {
	prefix := PrefixFor(start, category)

	ids, err := src.ListIDsByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	next := maxSuffix(prefix, ids) + 1
	id := fmt.Sprintf("%s_%02d", prefix, next)

	exists, err := src.ExistsByID(ctx, id)
	if err != nil {
		return "", err
	}
	if exists {
		return "", workshifterrors.ErrIDGenerationConflict.WithDetails(map[string]any{"id": id})
	}

	return id, nil
}

func maxSuffix(prefix string, ids []string) int {
	highest := 0
	for _, id := range ids {
		rest, ok := strings.CutPrefix(id, prefix+"_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		highest = max(highest, n)
	}
	return highest
}
