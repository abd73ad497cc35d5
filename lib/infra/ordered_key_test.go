package infra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedKeyCmp(t *testing.T) {
	require.Equal(t, int64(0), OrderedKeyCmp(1, 1))
	require.Equal(t, int64(-1), OrderedKeyCmp(1, 2))
	require.Equal(t, int64(1), OrderedKeyCmp(uint8(2), uint8(1)))
	require.Equal(t, int64(-1), OrderedKeyCmp("blue", "green"))
	require.Equal(t, int64(1), OrderedKeyCmp(3.3, 1.1))

	nan := math.NaN()
	require.Equal(t, int64(0), OrderedKeyCmp(nan, nan))
	require.Equal(t, int64(-1), OrderedKeyCmp(nan, math.Inf(-1)))
	require.Equal(t, int64(1), OrderedKeyCmp(0.0, nan))
}

func TestReverse(t *testing.T) {
	desc := Reverse(Comparator[float64](OrderedKeyCmp[float64]))
	require.Equal(t, int64(-1), desc(5.3, 4.4))
	require.Equal(t, int64(1), desc(0, 1.1))
	require.Equal(t, int64(0), desc(3.3, 3.3))
}
