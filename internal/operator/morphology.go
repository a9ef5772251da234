package operator

import (
	"image"

	"gocv.io/x/gocv"
)

// dilationSize clamps the side of a square kernel to the image. From side 2n-1 on, where n is the
// largest image dimension, every window anchored at its centre covers the whole image.
func dilationSize(size int, m gocv.Mat) int {
	limit := 2*max(m.Rows(), m.Cols()) - 1
	if size > limit {
		return limit
	}

	return size
}

// dilate replaces every sample with the maximum over a size x size square anchored at size/2,
// the result must be closed by the caller
func dilate(src gocv.Mat, size int) gocv.Mat {
	dst := gocv.NewMat()
	size = dilationSize(size, src)
	if size <= 1 {
		src.CopyTo(&dst)
		return dst
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size, size))
	defer kernel.Close()

	gocv.Dilate(src, &dst, kernel)
	return dst
}

// thicken dilates a response with a square of side thickness-base when thickness exceeds base,
// otherwise the response is copied untouched
func thicken(src gocv.Mat, thickness, base int) gocv.Mat {
	if thickness <= base {
		return src.Clone()
	}

	return dilate(src, thickness-base)
}
