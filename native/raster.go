package native

import (
	"fmt"
	"math"

	"github.com/tingold/orb-gdal/binding"
)

// Band is a raster band held in memory. Pixels are stored as float64 and
// clamped to the range of the band's data type on write.
type Band struct {
	id        int
	dataType  binding.DataType
	x, y      int
	pixels    []float64
	overviews []*Band
}

func newBand(id int, dt binding.DataType, x, y int) *Band {
	return &Band{id: id, dataType: dt, x: x, y: y, pixels: make([]float64, x*y)}
}

// ID implements binding.Band.
func (b *Band) ID() int { return b.id }

// DataType implements binding.Band.
func (b *Band) DataType() binding.DataType { return b.dataType }

// Size implements binding.Band.
func (b *Band) Size() (x, y int) { return b.x, b.y }

// Overviews implements binding.Band.
func (b *Band) Overviews() binding.Indexed[binding.Band] {
	return overviewList(b.overviews)
}

// Pixel returns the value at column x, row y.
func (b *Band) Pixel(x, y int) (float64, error) {
	i, err := b.offset(x, y)
	if err != nil {
		return 0, err
	}
	return b.pixels[i], nil
}

// SetPixel stores v at column x, row y.
func (b *Band) SetPixel(x, y int, v float64) error {
	i, err := b.offset(x, y)
	if err != nil {
		return err
	}
	b.pixels[i] = clampPixel(b.dataType, v)
	return nil
}

// Fill sets every pixel to v.
func (b *Band) Fill(v float64) {
	v = clampPixel(b.dataType, v)
	for i := range b.pixels {
		b.pixels[i] = v
	}
}

// BuildOverviews replaces the overviews with one reduced copy per factor.
// Each overview pixel is the mean of the source block it covers.
func (b *Band) BuildOverviews(factors ...int) error {
	overviews := make([]*Band, 0, len(factors))
	for _, f := range factors {
		if f < 2 {
			return fmt.Errorf("native: overview factor %d must be at least 2", f)
		}
		ox, oy := ceilDiv(b.x, f), ceilDiv(b.y, f)
		ov := newBand(b.id, b.dataType, ox, oy)
		for row := 0; row < oy; row++ {
			for col := 0; col < ox; col++ {
				ov.pixels[row*ox+col] = clampPixel(b.dataType, b.blockMean(col*f, row*f, f))
			}
		}
		overviews = append(overviews, ov)
	}
	b.overviews = overviews
	return nil
}

func (b *Band) blockMean(x0, y0, f int) float64 {
	var (
		sum float64
		n   int
	)
	for y := y0; y < y0+f && y < b.y; y++ {
		for x := x0; x < x0+f && x < b.x; x++ {
			sum += b.pixels[y*b.x+x]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (b *Band) offset(x, y int) (int, error) {
	if x < 0 || x >= b.x || y < 0 || y >= b.y {
		return 0, fmt.Errorf("%w: pixel (%d, %d)", ErrOutOfRange, x, y)
	}
	return y*b.x + x, nil
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func clampPixel(dt binding.DataType, v float64) float64 {
	var lo, hi float64
	switch dt {
	case binding.Byte:
		lo, hi = 0, math.MaxUint8
	case binding.UInt16:
		lo, hi = 0, math.MaxUint16
	case binding.Int16:
		lo, hi = math.MinInt16, math.MaxInt16
	case binding.UInt32:
		lo, hi = 0, math.MaxUint32
	case binding.Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	case binding.Float32:
		return float64(float32(v))
	default:
		return v
	}
	return math.Max(lo, math.Min(hi, math.Round(v)))
}

type overviewList []*Band

func (o overviewList) Count() int { return len(o) }

func (o overviewList) Get(i int) (binding.Band, error) {
	if i < 0 || i >= len(o) {
		return nil, fmt.Errorf("%w: overview %d", ErrOutOfRange, i)
	}
	return o[i], nil
}
