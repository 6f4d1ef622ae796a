package interpreter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/buildexport/internal/config"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// ErrNoCompatible is returned when no available interpreter satisfies a
// node's constraints.
var ErrNoCompatible = errors.New("no compatible interpreter")

// Pool is the set of interpreters the export may assign to nodes.
type Pool struct {
	interpreters []*Interpreter
	defaults     []Constraint
	logger       *slog.Logger
}

// NewPool creates a pool over the given interpreters. defaultConstraints
// apply to nodes that declare no compatibility of their own.
func NewPool(interpreters []*Interpreter, defaultConstraints []string, logger *slog.Logger) (*Pool, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	defaults, err := ParseConstraints(defaultConstraints)
	if err != nil {
		return nil, fmt.Errorf("default interpreter constraints: %w", err)
	}
	return &Pool{interpreters: interpreters, defaults: defaults, logger: logger}, nil
}

// NewPoolFromConfig builds a pool from the python section of the config.
func NewPoolFromConfig(cfg *config.PythonConfig, logger *slog.Logger) (*Pool, error) {
	if cfg == nil {
		cfg = &config.PythonConfig{}
	}
	interpreters := make([]*Interpreter, 0, len(cfg.Interpreters))
	for _, ic := range cfg.Interpreters {
		id, err := ParseIdentity(ic.Identity)
		if err != nil {
			return nil, fmt.Errorf("interpreter %s: %w", ic.Binary, err)
		}
		if ic.Binary == "" {
			return nil, fmt.Errorf("interpreter %s: binary is required", id)
		}
		interpreters = append(interpreters, &Interpreter{Identity: id, Binary: ic.Binary})
	}
	return NewPool(interpreters, cfg.InterpreterConstraints, logger)
}

// Interpreters returns the interpreters in the pool.
func (p *Pool) Interpreters() []*Interpreter {
	return p.interpreters
}

// Compatible returns the interpreters matching any of the constraints, in
// pool order. An empty constraint list falls back to the pool defaults, and
// empty defaults accept every interpreter.
func (p *Pool) Compatible(constraints []Constraint) []*Interpreter {
	if len(constraints) == 0 {
		constraints = p.defaults
	}
	var matches []*Interpreter
	for _, interp := range p.interpreters {
		if len(constraints) == 0 || MatchesAny(constraints, interp.Identity) {
			matches = append(matches, interp)
		}
	}
	return matches
}

// Select picks the lowest compatible interpreter for node.
func (p *Pool) Select(ctx context.Context, node *core.GraphNode) (*Interpreter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	constraints, err := ParseConstraints(node.Compatibility)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", node.Address, err)
	}

	selected := Min(p.Compatible(constraints))
	if selected == nil {
		described := node.Compatibility
		if len(described) == 0 {
			for _, c := range p.defaults {
				described = append(described, c.String())
			}
		}
		return nil, fmt.Errorf("%w: constraints [%s]", ErrNoCompatible, strings.Join(described, " || "))
	}

	p.logger.Debug("selected interpreter", "target", node.Address, "interpreter", selected.Identity.String())
	return selected, nil
}
