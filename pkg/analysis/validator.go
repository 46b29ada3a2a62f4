package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/airlift-dev/airlift/pkg/source"
)

// CrossTableValidator checks sampled references from a candidate's source
// side against the target table's known identifier set. It is the only
// component requiring a second data access and is shared by schema-declared
// and data-driven candidates.
type CrossTableValidator struct {
	store  source.Store
	logger *zap.Logger
}

// NewCrossTableValidator creates a validator over the given store.
func NewCrossTableValidator(store source.Store, logger *zap.Logger) *CrossTableValidator {
	return &CrossTableValidator{
		store:  store,
		logger: logger.Named("cross-table-validator"),
	}
}

// Validate returns the fraction of sampled references that resolve in the
// target's identifier set, 0 when the reference sample is empty or the target
// is unresolved.
func (v *CrossTableValidator) Validate(ctx context.Context, refs []string, targetTableID string) (float64, error) {
	if len(refs) == 0 || targetTableID == "" {
		return 0, nil
	}

	targetIDs, err := v.store.FetchIDSet(ctx, targetTableID)
	if err != nil {
		return 0, fmt.Errorf("fetch target id set: %w", err)
	}

	valid := 0
	for _, ref := range refs {
		if _, ok := targetIDs[ref]; ok {
			valid++
		}
	}
	ratio := float64(valid) / float64(len(refs))

	v.logger.Debug("cross-table validation",
		zap.String("target_table", targetTableID),
		zap.Int("sampled", len(refs)),
		zap.Int("valid", valid))
	return ratio, nil
}
