package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		prior int
		want  int
	}{
		{"template at zero yields first form version", 0, 1},
		{"form version increments", 1, 2},
		{"later version increments", 41, 42},
		{"negative treated as absent", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.prior))
		})
	}
}

func TestNext_StrictlyIncreasing(t *testing.T) {
	v := 0
	for i := 0; i < 100; i++ {
		next := Next(v)
		assert.Greater(t, next, v)
		v = next
	}
	assert.Equal(t, 100, v)
}
