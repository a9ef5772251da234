package operator

import (
	"context"
	"image"

	"gocv.io/x/gocv"
)

// anchorCentre places the anchor at the kernel centre
var anchorCentre = image.Pt(-1, -1)

func sobel(ctx context.Context, src gocv.Mat, p Params) (gocv.Mat, error) {
	if err := validateKernel(p.KernelSize); err != nil {
		return gocv.NewMat(), err
	}

	img, err := Gamma(src, p.Gamma)
	defer img.Close()
	if err != nil {
		return gocv.NewMat(), err
	}

	gx, gy := gocv.NewMat(), gocv.NewMat()
	defer gx.Close()
	defer gy.Close()

	gocv.Sobel(img, &gx, gocv.MatTypeCV64F, 1, 0, p.KernelSize, p.C, 0, gocv.BorderDefault)
	gocv.Sobel(img, &gy, gocv.MatTypeCV64F, 0, 1, p.KernelSize, p.C, 0, gocv.BorderDefault)

	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}

	thickX := thicken(gx, p.Thickness, p.KernelSize)
	defer thickX.Close()
	thickY := thicken(gy, p.Thickness, p.KernelSize)
	defer thickY.Close()

	return toUint8(magnitude(thickX, thickY)), nil
}

const prewittSize = 3

func prewitt(ctx context.Context, src gocv.Mat, p Params) (gocv.Mat, error) {
	img, err := Gamma(src, p.Gamma)
	defer img.Close()
	if err != nil {
		return gocv.NewMat(), err
	}

	kx, ky := prewittKernels(p.C, dilationSize(p.Thickness, img))
	defer kx.Close()
	defer ky.Close()

	gx, gy := gocv.NewMat(), gocv.NewMat()
	defer gx.Close()
	defer gy.Close()

	gocv.Filter2D(img, &gx, gocv.MatTypeCV64F, kx, anchorCentre, 0, gocv.BorderDefault)
	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}
	gocv.Filter2D(img, &gy, gocv.MatTypeCV64F, ky, anchorCentre, 0, gocv.BorderDefault)

	return toUint8(magnitude(gx, gy)), nil
}

// prewittKernels returns the x and y kernels scaled by c, sampled up to thickness x thickness
// when thickness exceeds the base size
func prewittKernels(c float64, thickness int) (gocv.Mat, gocv.Mat) {
	kx := kernel(c, []float64{
		-1, 0, 1,
		-1, 0, 1,
		-1, 0, 1,
	})
	ky := kernel(c, []float64{
		1, 1, 1,
		0, 0, 0,
		-1, -1, -1,
	})

	if thickness <= prewittSize {
		return kx, ky
	}

	defer kx.Close()
	defer ky.Close()

	return resizeKernel(kx, thickness), resizeKernel(ky, thickness)
}

const robertsSize = 2

func roberts(ctx context.Context, src gocv.Mat, p Params) (gocv.Mat, error) {
	img, err := Gamma(src, p.Gamma)
	defer img.Close()
	if err != nil {
		return gocv.NewMat(), err
	}

	kx := kernel(p.C, []float64{
		1, 0,
		0, -1,
	})
	defer kx.Close()

	ky := kernel(p.C, []float64{
		0, -1,
		1, 0,
	})
	defer ky.Close()

	gx, gy := absResponse(img, kx), absResponse(img, ky)
	defer gx.Close()
	defer gy.Close()

	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}

	thickX := thicken(gx, p.Thickness, robertsSize)
	defer thickX.Close()
	thickY := thicken(gy, p.Thickness, robertsSize)
	defer thickY.Close()

	dst := gocv.NewMat()
	gocv.Add(thickX, thickY, &dst)

	return dst, nil
}

func laplacian(ctx context.Context, src gocv.Mat, p Params) (gocv.Mat, error) {
	if err := validateKernel(p.KernelSize); err != nil {
		return gocv.NewMat(), err
	}

	img, err := Gamma(src, p.Gamma)
	defer img.Close()
	if err != nil {
		return gocv.NewMat(), err
	}

	blurred := gaussianBlur(img, p.KernelSize)
	defer blurred.Close()

	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}

	response := gocv.NewMat()
	defer response.Close()
	gocv.Laplacian(blurred, &response, gocv.MatTypeCV8U, p.KernelSize, 1, 0, gocv.BorderDefault)

	scaled := gocv.NewMat()
	defer scaled.Close()
	response.ConvertToWithParams(&scaled, gocv.MatTypeCV8U, float32(p.C), 0)

	return thicken(scaled, p.Thickness, p.KernelSize), nil
}

// gaussianBlur smooths with a ksize x ksize Gaussian whose sigma is derived from the window,
// the result must be closed by the caller
func gaussianBlur(src gocv.Mat, ksize int) gocv.Mat {
	dst := gocv.NewMat()
	gocv.GaussianBlur(src, &dst, image.Pt(ksize, ksize), 0, 0, gocv.BorderDefault)

	return dst
}

// kernel returns a square float kernel with the given row major values scaled by c
func kernel(c float64, values []float64) gocv.Mat {
	n := 1
	for n*n < len(values) {
		n++
	}

	k := gocv.NewMatWithSize(n, n, gocv.MatTypeCV64F)
	for i, v := range values {
		k.SetDoubleAt(i/n, i%n, v*c)
	}

	return k
}

// resizeKernel samples a kernel up to size x size with nearest neighbour interpolation
func resizeKernel(k gocv.Mat, size int) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Resize(k, &dst, image.Pt(size, size), 0, 0, gocv.InterpolationNearestNeighbor)

	return dst
}

// absResponse correlates into a saturated int16 response and returns its absolute value as 8 bits
func absResponse(src, k gocv.Mat) gocv.Mat {
	response := gocv.NewMat()
	defer response.Close()
	gocv.Filter2D(src, &response, gocv.MatTypeCV16S, k, anchorCentre, 0, gocv.BorderDefault)

	dst := gocv.NewMat()
	gocv.ConvertScaleAbs(response, &dst, 1, 0)

	return dst
}

// magnitude returns sqrt(gx²+gy²) of two float responses, the result must be closed by the caller
func magnitude(gx, gy gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Magnitude(gx, gy, &dst)

	return dst
}

// toUint8 saturates a float response to 8 bits and closes it
func toUint8(src gocv.Mat) gocv.Mat {
	defer src.Close()

	dst := gocv.NewMat()
	src.ConvertTo(&dst, gocv.MatTypeCV8U)

	return dst
}
