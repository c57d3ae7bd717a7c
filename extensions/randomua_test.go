package extensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomUA(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.True(t, strings.HasPrefix(GenerateRandomUA(), "Mozilla/5.0"))
	}
}
