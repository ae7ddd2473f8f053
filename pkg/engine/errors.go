package engine

import (
	"github.com/colormix/paintmix/pkg/optimize"
	"github.com/colormix/paintmix/pkg/reconstruct"
	"github.com/colormix/paintmix/pkg/recipe"
)

// The engine's public error taxonomy. Each alias points at the concrete
// error type its owning component already returns, so callers can
// errors.As against a single, stable set of names regardless of which
// package underneath produced the failure.
type (
	// ReconstructionFailedError means C2 exhausted its iteration budget and
	// the best residual exceeded the salvage threshold.
	ReconstructionFailedError = reconstruct.FailedError
	// MissingColorError means a strategy required a canonical pigment by
	// name that the candidate pool didn't have.
	MissingColorError = recipe.MissingColorError
	// InsufficientPigmentsError means a search pool had fewer than 3
	// pigments.
	InsufficientPigmentsError = recipe.InsufficientPigmentsError
)

// Sentinel errors re-exported under the taxonomy's names.
var (
	// ErrInvalidStrategy means the mix_choice string did not match any
	// known strategy.
	ErrInvalidStrategy = recipe.ErrInvalidStrategy
	// ErrNoValidMixture means a search produced zero recipes; individual
	// combination failures are swallowed and never reach this far.
	ErrNoValidMixture = recipe.ErrNoValidMixture
	// ErrOptimizationFailed is OptimizationError's concrete cause:
	// mismatched pigment/weight vector lengths, an invariant violation
	// rather than an expected runtime outcome.
	ErrOptimizationFailed = optimize.ErrLengthMismatch
)
