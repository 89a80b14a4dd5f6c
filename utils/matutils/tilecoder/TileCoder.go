// Package tilecoder implements tile coding of vectors
package tilecoder

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/samuelfneumann/purenv/prng"
	"github.com/samuelfneumann/purenv/utils/floatutils"
	"github.com/samuelfneumann/purenv/utils/matutils"
)

// Controls tiling offsets. For each dimension, tilings are offset by
// randomly sampling from a uniform distribution with support
// [- tiling width/OffsetDiv, tiling width/OffsetDiv]
const OffsetDiv float64 = 1.5

// TileCoder implements functionality for tile coding a vector. Tile
// coding takes a low-dimensional vector and changes it into a large,
// sparse vector consisting of only 0's and 1's. Each 1 represents the
// coordinates of the original vector in some space of tilings. For
// example:
//
//	[0.5, 0.1] -> [0, 0, 0, 1, 0, 0, 1, 0]
//
// The number of nonzero elements in the tile-coded representation equals
// the number of tilings used to encode the vector (plus one if a bias
// unit is used). Tile coding requires that the space to be tiled be
// bounded.
//
// This implementation of tile coding uses dense tilings over the entire
// space. That is, each dimension is fully tiled, and hash-based tile
// coding is not used. Tiling offsets are drawn from a key, so two
// TileCoders built from the same key and arguments encode identically.
type TileCoder struct {
	numTilings  int
	minDims     []float64
	offsets     [][]float64
	bins        [][]int
	binLengths  [][]float64
	includeBias bool
}

// New creates and returns a new TileCoder. The minDims and maxDims
// arguments are the finite bounds on each dimension between which
// tilings will be placed.
//
// The bins argument determines both the number of tilings to use and
// the number of tiles per each tiling. The number of elements in the
// outer slice determines the number of tilings to use. The sub-slices
// determine how many tiles are placed along each dimension for the
// respective tiling. For example, if bins := [][]int{{2, 2}, {4, 3}},
// then the TileCoder uses two tilings. The first tiling is a 2x2
// tiling. The second tiling uses 4 tiles along the first dimension and
// 3 tiles along the second dimension.
//
// The parameter includeBias determines whether or not a bias unit is
// kept as the first unit in the tile coded representation.
func New(key prng.Key, minDims, maxDims mat.Vector, bins [][]int,
	includeBias bool) (TileCoder, error) {
	dims := minDims.Len()
	if dims != maxDims.Len() {
		return TileCoder{}, fmt.Errorf("new: cannot specify minimum with "+
			"different dimensions than maximum: %d != %d", dims, maxDims.Len())
	}
	if !matutils.IsFinite(minDims) || !matutils.IsFinite(maxDims) {
		return TileCoder{}, fmt.Errorf("new: cannot tile unbounded space")
	}
	if len(bins) == 0 {
		return TileCoder{}, fmt.Errorf("new: at least one tiling is required")
	}

	// Calculate the length of bins and the tiling offset bounds
	var bounds []r1.Interval
	numTilings := len(bins)
	binLengths := make([][]float64, numTilings)
	for j := 0; j < numTilings; j++ {
		if len(bins[j]) != dims {
			return TileCoder{}, fmt.Errorf("new: tiling %d should have a "+
				"number of bins for each dimension \n\twant(%d) \n\thave(%d)",
				j, dims, len(bins[j]))
		}

		binLengths[j] = make([]float64, dims)
		for i := 0; i < dims; i++ {
			if bins[j][i] <= 0 {
				return TileCoder{}, fmt.Errorf("new: cannot have less than "+
					"1 bin per dimension, have %d", bins[j][i])
			}
			width := maxDims.AtVec(i) - minDims.AtVec(i)
			if width <= 0 {
				return TileCoder{}, fmt.Errorf("new: dimension %d has empty "+
					"bounds [%v, %v]", i, minDims.AtVec(i), maxDims.AtVec(i))
			}

			binLength := width / float64(bins[j][i])
			bound := binLength / OffsetDiv // Bounds tiling offsets

			binLengths[j][i] = binLength
			bounds = append(bounds, r1.Interval{Min: -bound, Max: bound})
		}
	}

	// Sample the offsets of all tilings at once
	samples := mat.NewDense(1, len(bounds), nil)
	sampler := samplemv.IID{Dist: distmv.NewUniform(bounds, prng.Source(key))}
	sampler.Sample(samples)

	offsets := make([][]float64, numTilings)
	for j := range offsets {
		offsets[j] = append([]float64(nil),
			samples.RawRowView(0)[j*dims:(j+1)*dims]...)
	}

	copied := make([][]int, numTilings)
	for j := range bins {
		copied[j] = append([]int(nil), bins[j]...)
	}

	mins := make([]float64, dims)
	for i := range mins {
		mins[i] = minDims.AtVec(i)
	}

	return TileCoder{numTilings, mins, offsets, copied, binLengths,
		includeBias}, nil
}

func (t TileCoder) bias() int {
	if t.includeBias {
		return 1
	}
	return 0
}

// Calculates how many features exist in the tile-coded representation
// before tiling number i
func (t TileCoder) featuresBeforeTiling(i int) int {
	features := 0
	for j := 0; j < i; j++ {
		features += prod(t.bins[j])
	}
	return features
}

// tile returns the tile along dimension i of tiling j in which value
// falls. Values out of bounds fall in the first or last tile.
func (t TileCoder) tile(value float64, tiling, i int) int {
	data := value + t.offsets[tiling][i]
	tile := math.Floor((data - t.minDims[i]) / t.binLengths[tiling][i])
	return int(floatutils.Clip(tile, 0.0, float64(t.bins[tiling][i]-1)))
}

// encodeWithTiling returns the index of the tile coded feature vector
// which should be a 1.0 when the input vector v is encoded with tiling
// number tiling in the TileCoder.
func (t TileCoder) encodeWithTiling(v mat.Vector, tiling int) int {
	index, stride := 0, 1
	for i := len(t.bins[tiling]) - 1; i > -1; i-- {
		index += t.tile(v.AtVec(i), tiling, i) * stride
		stride *= t.bins[tiling][i]
	}
	return t.featuresBeforeTiling(tiling) + index + t.bias()
}

// EncodeIndices returns the non-zero indices in the tile coded vector
// when v is tile coded. If a bias unit is used, its index 0 is last.
func (t TileCoder) EncodeIndices(v mat.Vector) []float64 {
	indices := make([]float64, t.numTilings+t.bias())
	for i := 0; i < t.numTilings; i++ {
		indices[i] = float64(t.encodeWithTiling(v, i))
	}
	return indices
}

// Encode encodes a single vector as a tile-coded vector
func (t TileCoder) Encode(v mat.Vector) *mat.VecDense {
	tileCoded := mat.NewVecDense(t.VecLength(), nil)
	for _, index := range t.EncodeIndices(v) {
		tileCoded.SetVec(int(index), 1.0)
	}
	return tileCoded
}

// EncodeBatch encodes a batch of vectors held in a Dense matrix. In
// this batch, each row should be a sequential feature, while each
// column should be a sequential sample in the batch. This function
// returns a new matrix of size k x c, where k is the number of features
// in the tile coded representation and c is the number of samples in
// the batch.
func (t TileCoder) EncodeBatch(b *mat.Dense) *mat.Dense {
	_, cols := b.Dims()
	tileCoded := mat.NewDense(t.VecLength(), cols, nil)

	// A vector of 1.0's will be needed for calculations later
	ones := matutils.VecOnes(cols)

	// Vector that holds all the data that is manipulated
	data := mat.NewVecDense(cols, nil)

	for j := 0; j < t.numTilings; j++ {
		index := mat.NewVecDense(cols, nil)
		stride := 1.0

		for i := len(t.bins[j]) - 1; i > -1; i-- {
			data.CopyVec(b.RowView(i))

			// Offset the tiling and shift the bottom of the tiling to 0
			data.AddScaledVec(data, t.offsets[j][i]-t.minDims[i], ones)

			// If out-of-bounds, use the first or last tile
			matutils.VecFloor(data, t.binLengths[j][i])
			matutils.VecClip(data, 0.0, float64(t.bins[j][i]-1))

			index.AddScaledVec(index, stride, data)
			stride *= float64(t.bins[j][i])
		}

		// Offset the 1.0 based on which tiling was used
		offset := t.featuresBeforeTiling(j) + t.bias()
		for i := 0; i < index.Len(); i++ {
			tileCoded.Set(offset+int(index.AtVec(i)), i, 1.0)
		}
	}

	if t.includeBias {
		tileCoded.SetRow(0, matutils.VecOnes(cols).RawVector().Data)
	}
	return tileCoded
}

// String returns a string representation of a TileCoder
func (t TileCoder) String() string {
	return fmt.Sprintf("Tilings %d  |  Tiles: %v", t.numTilings, t.bins)
}

// VecLength returns the number of features in a tile-coded vector
func (t TileCoder) VecLength() int {
	return t.featuresBeforeTiling(t.numTilings) + t.bias()
}

// NumTilings returns the number of tilings the tile coder uses for
// encoding vectors
func (t TileCoder) NumTilings() int {
	return t.numTilings
}

// prod calculates the product of all integers in a []int
func prod(i []int) int {
	prod := 1
	for _, v := range i {
		prod *= v
	}
	return prod
}
