package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresEndpoints(t *testing.T) {
	_, err := New("1")
	assert.Error(t, err)
}

func TestNewBuildsID(t *testing.T) {
	e, err := New("2", WithEndpoints("127.0.0.1:2379"), WithKey("/ptt/test"), WithTTL(0))
	require.NoError(t, err)

	assert.Contains(t, e.ID, "crawler2-")
	assert.Contains(t, e.ID, "/ptt/test")
	assert.Equal(t, 10, e.ttl, "non-positive ttl keeps the default")
}

func TestGenElectorID(t *testing.T) {
	assert.Equal(t, "crawler1-10.0.0.5/ptt-crawler/election", genElectorID("1", "10.0.0.5", "/ptt-crawler/election"))
}
