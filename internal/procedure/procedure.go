// Package procedure implements named, authorization-gated queries and mutations.
//
// Every invocation runs the same pipeline: authentication tier, input decoding
// (defaults, then validation), middleware such as RequireRole, and finally the handler.
package procedure

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stonesign/plaque-cms/internal/errs"
	"github.com/stonesign/plaque-cms/internal/model"
)

// Kind distinguishes read-only queries from mutations.
type Kind int

const (
	Query Kind = iota
	Mutation
)

func (k Kind) String() string {
	if k == Mutation {
		return "mutation"
	}
	return "query"
}

// Tier is the authentication requirement of a procedure.
type Tier int

const (
	// Open procedures accept anonymous callers.
	Open Tier = iota
	// Authenticated procedures reject calls without a resolved caller.
	Authenticated
)

func (t Tier) String() string {
	if t == Authenticated {
		return "authenticated"
	}
	return "open"
}

// Request is what middleware and handlers see of a call.
type Request struct {
	Name   string
	Kind   Kind
	Caller *model.User
	Input  any
}

// Handler produces the result of a call.
type Handler func(ctx context.Context, req *Request) (any, error)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Procedure is a single named operation.
type Procedure struct {
	name       string
	kind       Kind
	tier       Tier
	middleware []Middleware
	decode     func(raw json.RawMessage) (any, error)
	handler    Handler
}

// Name returns the namespaced name, e.g. "content.getByPage".
func (p *Procedure) Name() string { return p.name }

// Kind returns whether p is a query or a mutation.
func (p *Procedure) Kind() Kind { return p.kind }

// Tier returns the authentication requirement of p.
func (p *Procedure) Tier() Tier { return p.tier }

// Option configures a Procedure at declaration time.
type Option func(*Procedure)

// Protected requires a resolved caller.
func Protected() Option {
	return func(p *Procedure) { p.tier = Authenticated }
}

// Use appends middleware; the first one added runs first.
func Use(mw ...Middleware) Option {
	return func(p *Procedure) { p.middleware = append(p.middleware, mw...) }
}

// AdminOnly is Protected plus RequireRole(model.RoleAdmin).
func AdminOnly() Option {
	return func(p *Procedure) {
		Protected()(p)
		Use(RequireRole(model.RoleAdmin))(p)
	}
}

// RequireRole rejects callers that do not hold role.
func RequireRole(role model.Role) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (any, error) {
			if req.Caller == nil {
				return nil, errs.ErrUnauthenticated
			}
			if req.Caller.Role != role {
				return nil, fmt.Errorf("%s requires role %s: %w", req.Name, role, errs.ErrForbidden)
			}
			return next(ctx, req)
		}
	}
}

// Func is the typed body of a procedure.
type Func[In, Out any] func(ctx context.Context, caller *model.User, in In) (Out, error)

func newProcedure[In, Out any](kind Kind, name string, fn Func[In, Out], opts []Option) *Procedure {
	p := &Procedure{
		name:   name,
		kind:   kind,
		decode: func(raw json.RawMessage) (any, error) { return decodeInput[In](raw) },
		handler: func(ctx context.Context, req *Request) (any, error) {
			in, _ := req.Input.(In)
			return fn(ctx, req.Caller, in)
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// NewQuery declares a read-only procedure.
func NewQuery[In, Out any](name string, fn Func[In, Out], opts ...Option) *Procedure {
	return newProcedure(Query, name, fn, opts)
}

// NewMutation declares a state-changing procedure.
func NewMutation[In, Out any](name string, fn Func[In, Out], opts ...Option) *Procedure {
	return newProcedure(Mutation, name, fn, opts)
}

func (p *Procedure) invoke(ctx context.Context, caller *model.User, raw json.RawMessage) (any, error) {
	if p.tier == Authenticated && caller == nil {
		return nil, errs.ErrUnauthenticated
	}
	in, err := p.decode(raw)
	if err != nil {
		return nil, err
	}
	h := p.handler
	for i := len(p.middleware) - 1; i >= 0; i-- {
		h = p.middleware[i](h)
	}
	return h(ctx, &Request{Name: p.name, Kind: p.kind, Caller: caller, Input: in})
}
