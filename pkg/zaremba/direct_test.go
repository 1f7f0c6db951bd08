package zaremba_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/zaremba/pkg/zaremba"
)

func TestZTauDirect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    uint64
		z    float64
		tau  uint64
	}{
		{name: "one", n: 1, z: 0, tau: 1},
		{name: "prime", n: 7, z: math.Log(7) / 7, tau: 2},
		{name: "six", n: 6, z: 1.0114042647073518, tau: 4},
		{name: "ten", n: 10, z: math.Log(2)/2 + math.Log(5)/5 + math.Log(10)/10, tau: 4},
		{name: "square", n: 36, z: 2.069307874791694, tau: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			z, tau := zaremba.ZTauDirect(tt.n)

			assert.InDelta(t, tt.z, z, crossEpsilon)
			assert.Equal(t, tt.tau, tau)
		})
	}
}
