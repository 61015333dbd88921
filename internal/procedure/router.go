package procedure

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stonesign/plaque-cms/internal/errs"
	"github.com/stonesign/plaque-cms/internal/model"
)

// Router resolves procedure names and runs the invocation pipeline.
type Router struct {
	procs map[string]*Procedure
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{procs: map[string]*Procedure{}}
}

// Mount registers procs under namespace. It panics on duplicate names.
func (r *Router) Mount(namespace string, procs ...*Procedure) *Router {
	for _, p := range procs {
		p.name = namespace + "." + p.name
		if _, dup := r.procs[p.name]; dup {
			panic(fmt.Sprintf("procedure %s registered twice", p.name))
		}
		r.procs[p.name] = p
	}
	return r
}

// Lookup returns the procedure registered under name.
func (r *Router) Lookup(name string) (*Procedure, bool) {
	p, ok := r.procs[name]
	return p, ok
}

// Procedures returns every registered procedure sorted by name.
func (r *Router) Procedures() []*Procedure {
	out := make([]*Procedure, 0, len(r.procs))
	for _, p := range r.procs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Invoke runs the named procedure for caller. caller is nil for anonymous calls.
func (r *Router) Invoke(ctx context.Context, name string, caller *model.User, input json.RawMessage) (any, error) {
	p, ok := r.procs[name]
	if !ok {
		return nil, fmt.Errorf("procedure %q: %w", name, errs.ErrNotFound)
	}
	return p.invoke(ctx, caller, input)
}
