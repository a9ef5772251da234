package operator

import (
	"context"
	"math"

	"gocv.io/x/gocv"
)

const cannyAperture = 3

func canny(ctx context.Context, src gocv.Mat, p Params) (gocv.Mat, error) {
	img, err := Gamma(src, p.Gamma)
	defer img.Close()
	if err != nil {
		return gocv.NewMat(), err
	}

	m := median(img.ToBytes())
	low := math.Trunc(math.Max(0, 0.7*m) * p.C)
	high := math.Trunc(math.Min(255, 1.3*m) * p.C)

	edges := gocv.NewMat()
	defer edges.Close()

	// Colour input takes the gradient of the strongest channel per pixel
	gocv.CannyWithParams(img, &edges, float32(low), float32(high), cannyAperture, true)

	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}

	if p.Thickness > 1 {
		return dilate(edges, p.Thickness), nil
	}

	return edges.Clone(), nil
}

// median returns the median of 8 bit samples, averaging the two middle ones for even counts
func median(samples []byte) float64 {
	if len(samples) == 0 {
		return 0
	}

	var hist [256]int
	for _, v := range samples {
		hist[v]++
	}

	n := len(samples)
	return (nth(hist, (n-1)/2) + nth(hist, n/2)) / 2
}

// nth returns the value at the given zero based rank of a histogram
func nth(hist [256]int, rank int) float64 {
	seen := 0
	for v, count := range hist {
		seen += count
		if seen > rank {
			return float64(v)
		}
	}

	return 255
}
