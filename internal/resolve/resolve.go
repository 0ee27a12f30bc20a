// Package resolve turns optional operator-supplied names into concrete ECS
// resources, one stage at a time: cluster, then task, then container. Each
// stage either looks the name up directly or lists the candidates and asks
// the injected selector.
package resolve

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/iambrandonn/iecs/internal/failure"
	"github.com/iambrandonn/iecs/internal/platform"
	"github.com/iambrandonn/iecs/internal/prompt"
)

// ClusterRef is a fully resolved cluster.
type ClusterRef struct {
	Name string
	ARN  string
}

// ContainerRef is a container that is ready to accept an exec session.
type ContainerRef struct {
	Name      string
	ARN       string
	RuntimeID string
}

// Resolver runs the resolution stages against the control plane.
type Resolver struct {
	api      platform.ECS
	selector prompt.Selector
	logger   *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(api platform.ECS, selector prompt.Selector, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{api: api, selector: selector, logger: logger}
}

// choose picks one of candidates for stage. No candidates is EmptyResult and
// a single candidate is taken without prompting.
func (r *Resolver) choose(stage failure.Stage, title string, candidates []prompt.Candidate) (int, error) {
	switch len(candidates) {
	case 0:
		return -1, failure.EmptyResult(stage)
	case 1:
		r.logger.Debug("single candidate, skipping selector", "stage", stage, "candidate", candidates[0].Title)
		return 0, nil
	}

	idx, err := r.selector.Select(title, candidates)
	if err != nil {
		return -1, failure.PromptFailed(stage, err)
	}
	if idx < 0 || idx >= len(candidates) {
		return -1, failure.PromptFailed(stage, fmt.Errorf("selector returned index %d for %d candidates", idx, len(candidates)))
	}
	return idx, nil
}
