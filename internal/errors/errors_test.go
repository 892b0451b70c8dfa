package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestBuilderMarksAndHints(t *testing.T) {
	err := NewErrorf("preview %s not found", "prev_1").
		WithHint("Preview not found or expired").
		WithReportableDetails(map[string]any{"preview_id": "prev_1"}).
		Mark(ErrNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatusFromErr(err))
	assert.Contains(t, errors.FlattenHints(err), "Preview not found or expired")
	assert.Contains(t, err.Error(), "prev_1")
}

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: NewError("bad body").Mark(ErrValidation), want: http.StatusBadRequest},
		{name: "rate limited", err: NewError("slow down").Mark(ErrRateLimited), want: http.StatusTooManyRequests},
		{name: "http client", err: WithError(errors.New("s3 down")).Mark(ErrHTTPClient), want: http.StatusInternalServerError},
		{name: "unmarked", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestIsSystem(t *testing.T) {
	err := WithError(errors.New("gofpdf failed")).WithMessage("render").Mark(ErrSystem)
	assert.True(t, IsSystem(err))
	assert.False(t, IsHTTPClient(err))
}
