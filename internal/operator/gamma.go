package operator

import (
	"math"

	"gocv.io/x/gocv"
)

// GammaTable returns the lookup table for gamma correction with the given gamma
func GammaTable(gamma float64) ([256]uint8, error) {
	var lut [256]uint8
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return lut, ErrInvalidGamma
	}

	inv := 1 / gamma
	for i := range lut {
		lut[i] = uint8(math.Min(255, math.Round(255*math.Pow(float64(i)/255, inv))))
	}

	return lut, nil
}

// Gamma applies gamma correction to every channel of an 8 bit image. The result must be closed by the
// caller, on errors too.
func Gamma(src gocv.Mat, gamma float64) (gocv.Mat, error) {
	lut, err := GammaTable(gamma)
	if err != nil {
		return gocv.NewMat(), err
	}

	table := gocv.NewMatWithSize(1, len(lut), gocv.MatTypeCV8U)
	defer table.Close()

	for i, v := range lut {
		table.SetUCharAt(0, i, v)
	}

	dst := gocv.NewMat()
	gocv.LUT(src, table, &dst)

	return dst, nil
}
