package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithDetailsKeepsSharedInstance(t *testing.T) {
	detailed := ErrSiteNotFound.WithDetails(map[string]interface{}{"id": "aachen"})

	assert.Equal(t, "aachen", detailed.Details["id"])
	assert.Empty(t, ErrSiteNotFound.Details)
	assert.Equal(t, http.StatusNotFound, detailed.StatusCode)
}

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("load site: %w", ErrSiteNotFound.WithDetails(map[string]interface{}{"id": "x"}))

	assert.True(t, stderrors.Is(wrapped, ErrSiteNotFound))
	assert.False(t, stderrors.Is(wrapped, ErrSessionNotFound))
	assert.Equal(t, "SITE_NOT_FOUND: Site not found", ErrSiteNotFound.Error())
}
