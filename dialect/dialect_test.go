package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupported(t *testing.T) {
	for _, name := range []string{MySQL, SQLite, Postgres} {
		assert.True(t, Supported(name), name)
	}
	assert.False(t, Supported("mssql"))
	assert.False(t, Supported(""))
}
