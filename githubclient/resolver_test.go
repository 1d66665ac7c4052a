// SPDX-License-Identifier: MIT

package githubclient

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	notFoundResp := &github.Response{Response: &http.Response{StatusCode: http.StatusNotFound}}
	okResp := &github.Response{Response: &http.Response{StatusCode: http.StatusOK}}

	assert.True(t, isNotFound(&github.ErrorResponse{}, notFoundResp))
	assert.False(t, isNotFound(&github.ErrorResponse{}, okResp))
	assert.False(t, isNotFound(&github.ErrorResponse{}, nil))
	assert.False(t, isNotFound(errors.New("boom"), notFoundResp))
}
