package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("sweep %d", 1)
	assert.Equal(t, "sweep %d", got)

	// nil installs a no-op, not a panic
	SetLogger(nil)
	Logf("dropped")
	assert.Equal(t, "sweep %d", got)
}
