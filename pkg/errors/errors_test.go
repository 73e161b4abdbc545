package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "unitDepth must be positive, got %v", -1)
	assert.Equal(t, "INVALID_CONFIG: unitDepth must be positive, got -1", err.Error())

	wrapped := Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "read plan %s", "floor.json")
	assert.Equal(t, "FILE_NOT_FOUND: read plan floor.json: file does not exist", wrapped.Error())
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
}

func TestCodeThroughWrapping(t *testing.T) {
	inner := New(ErrCodeInvalidStrategy, "unknown strategy %q", "voronoi")
	outer := fmt.Errorf("invalid options: %w", inner)

	tests := []struct {
		name    string
		err     error
		code    Code
		invalid bool
		message string
	}{
		{"direct", inner, ErrCodeInvalidStrategy, true, `unknown strategy "voronoi"`},
		{"fmt wrapped", outer, ErrCodeInvalidStrategy, true, `unknown strategy "voronoi"`},
		{"outermost code wins", Wrap(ErrCodeNetwork, inner, "connect cache"), ErrCodeNetwork, false, "connect cache"},
		{"uncoded", errors.New("boom"), "", false, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.Equal(t, tt.invalid, IsInvalid(tt.err))
			assert.Equal(t, tt.message, UserMessage(tt.err))
			if tt.code != "" {
				assert.True(t, Is(tt.err, tt.code))
			}
		})
	}
}

func TestIs(t *testing.T) {
	assert.False(t, Is(nil, ErrCodeNotFound))
	assert.False(t, Is(errors.New("plain"), ""))
	assert.False(t, Is(New(ErrCodeNotFound, "x"), ErrCodeFileNotFound))
}

func TestCodeClasses(t *testing.T) {
	for _, c := range []Code{ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidGeometry, ErrCodeInvalidFormat, ErrCodeInvalidStrategy} {
		assert.True(t, c.Invalid(), c)
		assert.False(t, c.Missing(), c)
	}
	for _, c := range []Code{ErrCodeNotFound, ErrCodeFileNotFound} {
		assert.True(t, c.Missing(), c)
		assert.False(t, c.Invalid(), c)
	}
	for _, c := range []Code{ErrCodeNetwork, ErrCodeTimeout, ErrCodeInternal, ErrCodeUnsupported} {
		assert.False(t, c.Invalid() || c.Missing(), c)
	}
}
