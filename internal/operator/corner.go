package operator

import (
	"context"
	"image"

	"gocv.io/x/gocv"
)

const (
	harrisBlockSize = 2
	markerRadius    = 3
)

func harris(ctx context.Context, src gocv.Mat, p Params) (gocv.Mat, error) {
	img, err := Gamma(src, p.Gamma)
	defer img.Close()
	if err != nil {
		return gocv.NewMat(), err
	}

	if err := validateKernel(p.KernelSize); err != nil {
		return gocv.NewMat(), err
	}

	gray := grayscale(img)
	defer gray.Close()

	response := gocv.NewMat()
	defer response.Close()
	gocv.CornerHarris(gray, &response, harrisBlockSize, p.KernelSize, p.C*0.01)

	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}

	// thickness passes of a 3x3 dilation equal a single square of side 2*thickness+1
	size := 1
	if p.Thickness > 0 {
		size = 2*min(p.Thickness, max(img.Rows(), img.Cols())) + 1
	}
	dilated := dilate(response, size)
	defer dilated.Close()

	_, maxVal, _, _ := gocv.MinMaxLoc(dilated)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(dilated, &mask, 0.01*maxVal, 255, gocv.ThresholdBinary)

	mask8 := gocv.NewMat()
	defer mask8.Close()
	mask.ConvertTo(&mask8, gocv.MatTypeCV8U)

	marker := p.marker()
	fill := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(marker.B), float64(marker.G), float64(marker.R), 0), img.Rows(), img.Cols(), gocv.MatTypeCV8UC3)
	defer fill.Close()

	dst := img.Clone()
	fill.CopyToWithMask(&dst, mask8)

	return dst, nil
}

func shiTomasi(ctx context.Context, src gocv.Mat, p Params) (gocv.Mat, error) {
	quality := p.C * 0.01
	if !(quality > 0) {
		return gocv.NewMat(), ErrInvalidQuality
	}

	if p.Thickness < 0 {
		return gocv.NewMat(), ErrInvalidDistance
	}

	img, err := Gamma(src, p.Gamma)
	defer img.Close()
	if err != nil {
		return gocv.NewMat(), err
	}

	gray := grayscale(img)
	defer gray.Close()

	// Unlimited count, strongest first, block 3 minimum eigenvalue response
	corners := gocv.NewMat()
	defer corners.Close()
	gocv.GoodFeaturesToTrack(gray, &corners, 0, quality, float64(p.Thickness))

	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}

	dst := img.Clone()
	marker := p.marker()
	for i := 0; i < corners.Rows(); i++ {
		pt := corners.GetVecfAt(i, 0)
		gocv.Circle(&dst, image.Pt(int(pt[0]), int(pt[1])), markerRadius, marker, -1)
	}

	return dst, nil
}

// grayscale converts a BGR image to one channel with the 0.299/0.587/0.114 luma weights,
// the result must be closed by the caller
func grayscale(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)

	return dst
}
