package export

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/leapstack-labs/buildexport/pkg/core"
)

// libraryTable resolves the classpath of the whole closure and files every
// artifact under its library id and classifier. Later artifacts for the same
// id and classifier replace earlier ones.
func (e *Exporter) libraryTable(ctx context.Context, closure []*core.GraphNode) (*core.LibraryTable, error) {
	if e.opts.Classpath == nil {
		return nil, nil
	}
	entries, err := e.opts.Classpath.EntriesFor(ctx, closure...)
	if err != nil {
		return nil, fmt.Errorf("resolve classpath: %w", err)
	}

	table := orderedmap.New[string, *orderedmap.OrderedMap[string, string]]()
	for _, entry := range entries {
		id := entry.Coordinate.Key().JarID()
		confs, ok := table.Get(id)
		if !ok {
			confs = orderedmap.New[string, string]()
			table.Set(id, confs)
		}
		confs.Set(entry.Coordinate.Conf(), entry.Path)
	}
	return table, nil
}
