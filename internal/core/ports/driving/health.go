package driving

import (
	"context"

	"github.com/custodia-labs/docvault-cli/internal/core/domain"
)

// HealthService probes and recovers the vector store, and reports
// whether the extraction/embedding runtime is present.
type HealthService interface {
	// CheckHealth probes a collection. With autoRecover set, a probe
	// failure consistent with corruption triggers a rebuild: the
	// collection is recreated empty and Recovered is reported so the
	// caller can prompt for re-ingestion.
	CheckHealth(ctx context.Context, collection string, autoRecover bool) *domain.HealthReport

	// CheckRuntime reports embedding-runtime and OCR availability.
	CheckRuntime(ctx context.Context) *domain.RuntimeStatus
}
