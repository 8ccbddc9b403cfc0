package chunker

// Scope names the kind of context being assembled: the whole document or a
// single task's summary.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeModule Scope = "module"
)

// Policy holds the strategy-selection thresholds. These are hand-tuned
// constants carried over from observed behavior, not derived from a cost
// model, so they are configuration rather than code.
type Policy struct {
	// GlobalMaxChunks / ModuleMaxChunks cap how many chunks each scope keeps.
	GlobalMaxChunks int
	ModuleMaxChunks int
	// GlobalDistributedMax is the chunk count up to which a global context
	// uses distributed sampling; beyond it, keyword scoring.
	GlobalDistributedMax int
	// ModuleFirstMax is the chunk count up to which a module context keeps
	// the leading chunks; beyond it, keyword scoring.
	ModuleFirstMax int
}

// DefaultPolicy returns the inherited thresholds.
func DefaultPolicy() Policy {
	return Policy{
		GlobalMaxChunks:      5,
		ModuleMaxChunks:      3,
		GlobalDistributedMax: 8,
		ModuleFirstMax:       6,
	}
}

// MaxChunks returns the keep cap for a scope.
func (p Policy) MaxChunks(scope Scope) int {
	if scope == ScopeModule {
		return p.ModuleMaxChunks
	}
	return p.GlobalMaxChunks
}

// Choose picks the selection strategy for a chunk count at a scope. A count
// already within the cap always uses first (Select returns everything
// unchanged in that case anyway).
func (p Policy) Choose(scope Scope, chunkCount, maxChunks int) Strategy {
	if chunkCount <= maxChunks {
		return StrategyFirst
	}
	switch scope {
	case ScopeGlobal:
		if chunkCount <= p.GlobalDistributedMax {
			return StrategyDistributed
		}
		return StrategyKeyword
	case ScopeModule:
		if chunkCount <= p.ModuleFirstMax {
			return StrategyFirst
		}
		return StrategyKeyword
	}
	return StrategyFirst
}
