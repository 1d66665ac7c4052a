// SPDX-License-Identifier: MIT

package stage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmasur/gh-actionaudit/model"
	"github.com/nmasur/gh-actionaudit/stage"
)

type fakeFetcher struct {
	files map[string][]byte
	err   error
}

func (f *fakeFetcher) RawGetOptional(_ context.Context, _, _, _, path string) ([]byte, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	body, ok := f.files[path]
	return body, ok, nil
}

func newAuditCtx(t *testing.T, raw string) *model.AuditContext {
	t.Helper()
	action, err := model.ParseActionRef(raw)
	require.NoError(t, err)
	return model.NewAuditContext(action, 0, "", 0)
}

func TestCompositeExpandStage_Leaf(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string][]byte{}}
	s := stage.NewCompositeExpandStage(fetcher)
	auditCtx := newAuditCtx(t, "actions/checkout@v4")

	require.NoError(t, s.Run(context.Background(), auditCtx))
	assert.Empty(t, auditCtx.Children)
	assert.Empty(t, auditCtx.Errors)
}

func TestCompositeExpandStage_ExpandsChildren(t *testing.T) {
	yaml := []byte(`
runs:
  using: composite
  steps:
    - uses: actions/setup-node@v4
    - uses: ./local-step
`)
	fetcher := &fakeFetcher{files: map[string][]byte{"action.yml": yaml}}
	s := stage.NewCompositeExpandStage(fetcher)
	auditCtx := newAuditCtx(t, "my-org/composite-action@v1")

	require.NoError(t, s.Run(context.Background(), auditCtx))
	require.Len(t, auditCtx.Children, 1)
	assert.Equal(t, "actions/setup-node@v4", auditCtx.Children[0].Raw)
}

func TestCompositeExpandStage_FetchErrorRecorded(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("network down")}
	s := stage.NewCompositeExpandStage(fetcher)
	auditCtx := newAuditCtx(t, "actions/checkout@v4")

	require.NoError(t, s.Run(context.Background(), auditCtx))
	require.Len(t, auditCtx.Errors, 1)
	assert.Equal(t, "composite_expand", auditCtx.Errors[0].Stage)
}
