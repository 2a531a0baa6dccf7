package diagnostics

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStampsIdentity(t *testing.T) {
	a := New(Info, CodeTestDone, "Test complete")
	b := New(Info, CodeTestDone, "Test complete")

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Time.IsZero())
	assert.Equal(t, Info, a.Severity)
}

func TestWithDoesNotShareEvidence(t *testing.T) {
	base := New(Warn, CodeTestUnknown, "Unknown test name").With("name", "x")
	other := base.With("extra", 1)

	assert.Len(t, base.Evidence, 1)
	assert.Len(t, other.Evidence, 2)
}

func TestJSONShape(t *testing.T) {
	d := New(Err, CodeDriverWrite, "write failed").WithDetail("spi: busy")
	b, err := json.Marshal(d)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "error", m["severity"])
	assert.Equal(t, "DRIVER.WRITE", m["code"])
	assert.Equal(t, "spi: busy", m["detail"])
	assert.NotContains(t, m, "evidence")
}
