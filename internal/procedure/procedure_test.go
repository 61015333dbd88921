package procedure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stonesign/plaque-cms/internal/errs"
	"github.com/stonesign/plaque-cms/internal/model"
)

type createIn struct {
	PageID       string `json:"pageId" validate:"required,max=100"`
	ContentType  string `json:"contentType" validate:"oneof=text markdown html"`
	DisplayOrder *int   `json:"displayOrder" validate:"required"`
}

func (c *createIn) ApplyDefaults() {
	if c.ContentType == "" {
		c.ContentType = "text"
	}
	if c.DisplayOrder == nil {
		zero := 0
		c.DisplayOrder = &zero
	}
}

var (
	admin = &model.User{ID: 1, Role: model.RoleAdmin}
	user  = &model.User{ID: 2, Role: model.RoleUser}
)

func newTestRouter(calls *int) *Router {
	echo := func(_ context.Context, _ *model.User, in createIn) (createIn, error) {
		*calls++
		return in, nil
	}
	return NewRouter().
		Mount("content",
			NewQuery("echo", echo),
			NewMutation("create", echo, AdminOnly()),
			NewQuery("mine", func(_ context.Context, caller *model.User, _ Empty) (int64, error) {
				*calls++
				return caller.ID, nil
			}, Protected()),
		)
}

func TestInvoke_UnknownProcedure(t *testing.T) {
	var calls int
	_, err := newTestRouter(&calls).Invoke(context.Background(), "content.nope", admin, nil)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestInvoke_DefaultsApplied(t *testing.T) {
	var calls int
	out, err := newTestRouter(&calls).Invoke(context.Background(), "content.echo", nil, json.RawMessage(`{"pageId":"home"}`))
	require.NoError(t, err)
	got := out.(createIn)
	require.Equal(t, "text", got.ContentType)
	require.Equal(t, 0, *got.DisplayOrder)
	require.Equal(t, 1, calls)
}

func TestInvoke_ValidationUsesJSONNames(t *testing.T) {
	var calls int
	_, err := newTestRouter(&calls).Invoke(context.Background(), "content.echo", nil, json.RawMessage(`{"contentType":"pdf"}`))
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := map[string]string{}
	for _, f := range ve.Fields {
		fields[f.Field] = f.Reason
	}
	require.Equal(t, "is required", fields["pageId"])
	require.Equal(t, "must be one of: text, markdown, html", fields["contentType"])
	require.Zero(t, calls)
}

func TestInvoke_TypeMismatch(t *testing.T) {
	var calls int
	_, err := newTestRouter(&calls).Invoke(context.Background(), "content.echo", nil, json.RawMessage(`{"pageId":42}`))
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "pageId", ve.Fields[0].Field)
	require.Equal(t, "must be a string", ve.Fields[0].Reason)

	_, err = newTestRouter(&calls).Invoke(context.Background(), "content.echo", nil, json.RawMessage(`{`))
	require.Equal(t, errs.KindValidation, errs.KindOf(err))
	require.Zero(t, calls)
}

func TestInvoke_Tiers(t *testing.T) {
	var calls int
	r := newTestRouter(&calls)
	valid := json.RawMessage(`{"pageId":"home"}`)

	_, err := r.Invoke(context.Background(), "content.create", nil, valid)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = r.Invoke(context.Background(), "content.create", user, valid)
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = r.Invoke(context.Background(), "content.create", admin, valid)
	require.NoError(t, err)

	out, err := r.Invoke(context.Background(), "content.mine", user, json.RawMessage(`{"ignored":true}`))
	require.NoError(t, err)
	require.Equal(t, int64(2), out)

	_, err = r.Invoke(context.Background(), "content.mine", nil, nil)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	require.Equal(t, 2, calls)
}

func TestInvoke_UnauthenticatedBeforeValidation(t *testing.T) {
	var calls int
	_, err := newTestRouter(&calls).Invoke(context.Background(), "content.create", nil, json.RawMessage(`{}`))
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestInvoke_ValidationBeforeRoleCheck(t *testing.T) {
	var calls int
	_, err := newTestRouter(&calls).Invoke(context.Background(), "content.create", user, json.RawMessage(`{}`))
	require.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestMiddlewareOrder(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, req *Request) (any, error) {
				trace = append(trace, name)
				return next(ctx, req)
			}
		}
	}
	r := NewRouter().Mount("x", NewQuery("y", func(context.Context, *model.User, Empty) (bool, error) {
		trace = append(trace, "handler")
		return true, nil
	}, Use(mark("a"), mark("b"))))

	_, err := r.Invoke(context.Background(), "x.y", nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "handler"}, trace)
}

func TestHandlerErrorPropagates(t *testing.T) {
	boom := errors.New("store down")
	r := NewRouter().Mount("x", NewQuery("y", func(context.Context, *model.User, Empty) (any, error) {
		return nil, boom
	}))
	_, err := r.Invoke(context.Background(), "x.y", nil, nil)
	require.ErrorIs(t, err, boom)
	require.Equal(t, errs.KindInternal, errs.KindOf(err))
}

func TestRouter_ProceduresAndDuplicates(t *testing.T) {
	var calls int
	r := newTestRouter(&calls)
	names := []string{}
	for _, p := range r.Procedures() {
		names = append(names, p.Name())
	}
	require.Equal(t, []string{"content.create", "content.echo", "content.mine"}, names)

	p, ok := r.Lookup("content.create")
	require.True(t, ok)
	require.Equal(t, Mutation, p.Kind())
	require.Equal(t, Authenticated, p.Tier())

	require.Panics(t, func() {
		NewRouter().Mount("a", NewQuery("b", func(context.Context, *model.User, Empty) (int, error) { return 0, nil }),
			NewQuery("b", func(context.Context, *model.User, Empty) (int, error) { return 0, nil }))
	})
}
