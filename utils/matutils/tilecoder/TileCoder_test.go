package tilecoder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/purenv/prng"
)

func unitCoder(t *testing.T, key prng.Key, bins [][]int,
	bias bool) TileCoder {
	dims := len(bins[0])
	ones := make([]float64, dims)
	for i := range ones {
		ones[i] = 1
	}
	tc, err := New(key, mat.NewVecDense(dims, nil),
		mat.NewVecDense(dims, ones), bins, bias)
	require.NoError(t, err)
	return tc
}

func TestEncode(t *testing.T) {
	tc := unitCoder(t, prng.New(3), [][]int{{2, 3, 4}, {5, 5, 5}}, true)
	require.Equal(t, 1+24+125, tc.VecLength())
	require.Equal(t, 2, tc.NumTilings())

	for _, key := range prng.Split(prng.New(4), 10) {
		v := mat.NewVecDense(3, []float64{
			prng.Uniform(key, 0, 1), prng.Uniform(prng.FoldIn(key, 1), 0, 1),
			prng.Uniform(prng.FoldIn(key, 2), 0, 1),
		})

		encoded := tc.Encode(v)
		require.Equal(t, 1.0, encoded.AtVec(0))
		require.Equal(t, 3.0, mat.Sum(encoded))

		// One active tile within each tiling
		require.Equal(t, 1.0, mat.Sum(encoded.SliceVec(1, 25)))
		require.Equal(t, 1.0, mat.Sum(encoded.SliceVec(25, 150)))
	}
}

func TestDistinctTiles(t *testing.T) {
	tc := unitCoder(t, prng.New(5), [][]int{{3, 3, 3}}, false)

	// With offsets no larger than a tile, the corners of the cube always
	// fall in distinct tiles
	seen := map[float64]bool{}
	for _, corner := range [][]float64{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
		{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
	} {
		index := tc.EncodeIndices(mat.NewVecDense(3, corner))[0]
		require.False(t, seen[index], "corner %v reused tile", corner)
		seen[index] = true
	}
}

func TestDeterministicOffsets(t *testing.T) {
	bins := [][]int{{4, 4}, {4, 4}, {4, 4}}
	a := unitCoder(t, prng.New(8), bins, false)
	b := unitCoder(t, prng.New(8), bins, false)
	require.Equal(t, a, b)

	c := unitCoder(t, prng.New(9), bins, false)
	require.NotEqual(t, a.offsets, c.offsets)
}

func TestEncodeBatch(t *testing.T) {
	tc := unitCoder(t, prng.New(6), [][]int{{3, 4}, {2, 5}}, true)

	batch := mat.NewDense(2, 4, []float64{
		0.1, 0.5, 0.9, -1,
		0.7, 0.2, 0.4, 2,
	})
	encoded := tc.EncodeBatch(batch)

	for i := 0; i < 4; i++ {
		want := tc.Encode(batch.ColView(i))
		require.True(t, mat.Equal(want, encoded.ColView(i)), "sample %d", i)
	}
}

func TestNewErrors(t *testing.T) {
	key := prng.New(0)
	lo := mat.NewVecDense(2, nil)
	hi := mat.NewVecDense(2, []float64{1, 1})

	_, err := New(key, lo, mat.NewVecDense(1, []float64{1}), [][]int{{2}},
		false)
	require.Error(t, err)

	_, err = New(key, lo, hi, nil, false)
	require.Error(t, err)

	_, err = New(key, lo, hi, [][]int{{2}}, false)
	require.Error(t, err)

	_, err = New(key, lo, hi, [][]int{{2, 0}}, false)
	require.Error(t, err)

	_, err = New(key, lo, lo, [][]int{{2, 2}}, false)
	require.Error(t, err)
}

func BenchmarkTileCoder(b *testing.B) {
	ones := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	tc, _ := New(prng.New(12), mat.NewVecDense(8, nil),
		mat.NewVecDense(8, ones), [][]int{{8, 8, 8, 8, 8, 8, 8, 8}}, true)

	y := mat.NewVecDense(8, []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5})

	for i := 0; i < b.N; i++ {
		tc.Encode(y)
	}
}
