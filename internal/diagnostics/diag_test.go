package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lukkan78/film-simulator/internal/lut"
	"github.com/lukkan78/film-simulator/internal/pipeline"
	"github.com/lukkan78/film-simulator/internal/profile"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err  error
		code string
		sev  Severity
	}{
		{fmt.Errorf("lookup: %w", profile.ErrNotFound), CodeProfileUnknown, Warn},
		{&pipeline.StageError{Stage: pipeline.StageColorTransform, Err: lut.ErrInvalidTable}, CodeLUTInvalid, Err},
		{errors.New("boom"), CodeFallback, Err},
	}
	for _, tt := range tests {
		d := FromError(tt.err)
		assert.Equal(t, tt.code, d.Code, tt.err.Error())
		assert.Equal(t, tt.sev, d.Severity)
		assert.NotEmpty(t, d.Detail)
		assert.False(t, d.Time.IsZero())
	}

	d := FromError(&pipeline.StageError{Stage: pipeline.StageGrain, Err: errors.New("panic: x")})
	assert.Equal(t, "grain", d.Evidence["stage"])
}
