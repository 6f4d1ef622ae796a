package export

import (
	"context"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/leapstack-labs/buildexport/internal/interpreter"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// runtimeGroup is the set of nodes assigned to one interpreter.
type runtimeGroup struct {
	interpreter *interpreter.Interpreter
	nodes       []*core.GraphNode
	seen        map[string]bool
}

// runtimeGroups maps interpreter identity to its group in first-use order.
type runtimeGroups struct {
	groups *orderedmap.OrderedMap[string, *runtimeGroup]
}

func newRuntimeGroups() *runtimeGroups {
	return &runtimeGroups{groups: orderedmap.New[string, *runtimeGroup]()}
}

func (r *runtimeGroups) add(interp *interpreter.Interpreter, n *core.GraphNode) {
	key := interp.Identity.String()
	g, ok := r.groups.Get(key)
	if !ok {
		g = &runtimeGroup{interpreter: interp, seen: make(map[string]bool)}
		r.groups.Set(key, g)
	}
	if g.seen[n.Address] {
		return
	}
	g.seen[n.Address] = true
	g.nodes = append(g.nodes, n)
}

func (r *runtimeGroups) len() int {
	return r.groups.Len()
}

func (w *walker) selectRuntime(n *core.GraphNode) (*interpreter.Interpreter, error) {
	if w.opts.Runtimes == nil {
		return nil, &NoCompatibleRuntimeError{Address: n.Address, Err: errors.New("no interpreters configured")}
	}
	interp, err := w.opts.Runtimes.Select(w.ctx, n)
	if err != nil {
		if errors.Is(err, interpreter.ErrNoCompatible) {
			return nil, &NoCompatibleRuntimeError{Address: n.Address, Err: err}
		}
		return nil, fmt.Errorf("select interpreter for %s: %w", n.Address, err)
	}
	if interp == nil {
		return nil, &NoCompatibleRuntimeError{Address: n.Address, Err: interpreter.ErrNoCompatible}
	}
	return interp, nil
}

// pythonSetup materializes one chroot per interpreter group and picks the
// lowest selected interpreter as the default. The default is a historical
// tie-break: it is not guaranteed to suit every node.
func (e *Exporter) pythonSetup(ctx context.Context, r *runtimeGroups) (*core.PythonSetup, error) {
	if r.len() == 0 {
		return nil, nil
	}
	if e.opts.Environments == nil {
		return nil, errors.New("runtime-bearing targets found but no chroot builder is configured")
	}

	interpreters := orderedmap.New[string, core.InterpreterInfo]()
	selected := make([]*interpreter.Interpreter, 0, r.len())
	for pair := r.groups.Oldest(); pair != nil; pair = pair.Next() {
		g := pair.Value
		chroot, err := e.opts.Environments.Materialize(ctx, g.interpreter, g.nodes)
		if err != nil {
			return nil, fmt.Errorf("build chroot for %s: %w", pair.Key, err)
		}
		e.opts.Logger.Debug("chroot ready", "interpreter", pair.Key, "targets", len(g.nodes), "path", chroot)
		interpreters.Set(pair.Key, core.InterpreterInfo{
			Binary: g.interpreter.Binary,
			Chroot: chroot,
		})
		selected = append(selected, g.interpreter)
	}

	return &core.PythonSetup{
		DefaultInterpreter: interpreter.Min(selected).Identity.String(),
		Interpreters:       interpreters,
	}, nil
}
