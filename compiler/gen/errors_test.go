package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Naming", "kebab", "unsupported naming policy")

		assert.Contains(t, err.Error(), "dbcmd: config error")
		assert.Contains(t, err.Error(), "Naming")
		assert.Contains(t, err.Error(), "kebab")
		assert.Contains(t, err.Error(), "unsupported naming policy")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("CacheDir", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "CacheDir")
		assert.Contains(t, err.Error(), "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Workers", -1, "must not be negative")
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.False(t, errors.Is(err, ErrLoadFailed))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := NewConfigError("Workers", nil, "missing")
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestLoadError(t *testing.T) {
	t.Run("Error message with patterns", func(t *testing.T) {
		err := NewLoadError([]string{"./billing", "./users"}, errors.New("no go files"))

		assert.Equal(t, "dbcmd: load error for ./billing ./users: no go files", err.Error())
	})

	t.Run("Error message without patterns", func(t *testing.T) {
		err := NewLoadError(nil, errors.New("boom"))
		assert.Equal(t, "dbcmd: load error: boom", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewLoadError(nil, cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrLoadFailed))
	})

	t.Run("IsLoadError helper", func(t *testing.T) {
		assert.True(t, IsLoadError(NewLoadError(nil, nil)))
		assert.False(t, IsLoadError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewGenerationError("write", "create_user_params.go", "cannot write", cause)

		assert.Contains(t, err.Error(), "dbcmd: generation error")
		assert.Contains(t, err.Error(), "phase write")
		assert.Contains(t, err.Error(), "file: create_user_params.go")
		assert.Contains(t, err.Error(), "cannot write")
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("Error message with phase only", func(t *testing.T) {
		err := &GenerationError{Phase: "render"}
		assert.Equal(t, "dbcmd: generation error in phase render", err.Error())
	})

	t.Run("Unwrap and Is", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewGenerationError("cache", "", "", cause)

		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})

	t.Run("IsGenerationError helper", func(t *testing.T) {
		assert.True(t, IsGenerationError(NewGenerationError("render", "", "", nil)))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}
