// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionRef(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ActionRef
		wantErr bool
	}{
		{
			name: "simple_tag",
			raw:  "actions/checkout@v4",
			want: ActionRef{Raw: "actions/checkout@v4", Owner: "actions", Repo: "checkout", GitRef: "v4", Type: RefTag},
		},
		{
			name: "subpath",
			raw:  "google-github-actions/auth/slim@v2",
			want: ActionRef{
				Raw: "google-github-actions/auth/slim@v2", Owner: "google-github-actions",
				Repo: "auth", Path: "slim", GitRef: "v2", Type: RefTag,
			},
		},
		{
			name: "sha",
			raw:  "actions/checkout@b4ffde65f46336ab88eb53be808477a3936bae11",
			want: ActionRef{
				Raw: "actions/checkout@b4ffde65f46336ab88eb53be808477a3936bae11",
				Owner: "actions", Repo: "checkout",
				GitRef: "b4ffde65f46336ab88eb53be808477a3936bae11", Type: RefSha,
			},
		},
		{
			name: "tag_without_v_prefix",
			raw:  "some/action@2.0",
			want: ActionRef{Raw: "some/action@2.0", Owner: "some", Repo: "action", GitRef: "2.0", Type: RefTag},
		},
		{
			name: "unknown_ref",
			raw:  "actions/checkout@main",
			want: ActionRef{Raw: "actions/checkout@main", Owner: "actions", Repo: "checkout", GitRef: "main", Type: RefUnknown},
		},
		{
			name:    "missing_at_sign",
			raw:     "actions/checkout",
			wantErr: true,
		},
		{
			name:    "missing_repo",
			raw:     "actions@v4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActionRef(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionRefPackageName(t *testing.T) {
	ar, err := ParseActionRef("google-github-actions/auth/slim@v2")
	require.NoError(t, err)
	assert.Equal(t, "google-github-actions/auth/slim", ar.PackageName())

	ar, err = ParseActionRef("actions/checkout@v4")
	require.NoError(t, err)
	assert.Equal(t, "actions/checkout", ar.PackageName())
}

func TestActionRefVersion(t *testing.T) {
	ar, err := ParseActionRef("codecov/codecov-action@v3.1.0")
	require.NoError(t, err)
	v, ok := ar.Version()
	assert.True(t, ok)
	assert.Equal(t, "3.1.0", v)

	ar, err = ParseActionRef("actions/checkout@main")
	require.NoError(t, err)
	_, ok = ar.Version()
	assert.False(t, ok)
}

func TestParseActionRefRoundTrip(t *testing.T) {
	for _, raw := range []string{
		"actions/checkout@v4",
		"google-github-actions/auth/slim@v2",
		"octo-org/example-repo/.github/workflows/reusable.yml@main",
	} {
		ar, err := ParseActionRef(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, ar.Raw)
	}
}

func TestIsThirdParty(t *testing.T) {
	assert.True(t, IsThirdParty("actions/checkout@v4"))
	assert.False(t, IsThirdParty("./local"))
	assert.True(t, IsThirdParty("../local"))
	assert.False(t, IsThirdParty("docker://node:18"))
}
