package overlay

import (
	"errors"
	"image"
	"image/color"
	"strconv"

	"gocv.io/x/gocv"

	"medclarity/pkg/masks"
)

// blendAlpha is the tint ratio of the colored mask layer over the scan.
const blendAlpha = 0.5

// Result carries the rendered overlay together with the canonical region
// ordering and the colors assigned to it. Region N in the ordering is the
// region stamped with numeral N on the image.
type Result struct {
	PNG     []byte
	Ordered []masks.Mask
	Colors  []RGB
	Width   int
	Height  int
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render decodes the uploaded scan, normalizes it to full grayscale range,
// tints every mask with its palette color at a fixed blend ratio and stamps
// each region's 1-based rank number at its pixel centroid.
func (r *Renderer) Render(imageData []byte, ms []masks.Mask) (*Result, error) {
	gray, err := gocv.IMDecode(imageData, gocv.IMReadGrayScale)
	if err != nil {
		return nil, err
	}
	defer gray.Close()
	if gray.Empty() {
		return nil, errors.New("failed to decode image data")
	}

	normalized := gocv.NewMat()
	defer normalized.Close()
	gocv.Normalize(gray, &normalized, 0, 255, gocv.NormMinMax)

	base := gocv.NewMat()
	defer base.Close()
	gocv.CvtColor(normalized, &base, gocv.ColorGrayToBGR)

	rows, cols := base.Rows(), base.Cols()

	ordered := masks.SortByArea(ms)
	colors := Palette(len(ordered))

	coloredMask := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	defer coloredMask.Close()

	for i, m := range ordered {
		c := colors[i]
		for y, row := range m.Segmentation {
			if y >= rows {
				break
			}
			for x, set := range row {
				if !set || x >= cols {
					continue
				}
				coloredMask.SetUCharAt(y, x*3, c[2])
				coloredMask.SetUCharAt(y, x*3+1, c[1])
				coloredMask.SetUCharAt(y, x*3+2, c[0])
			}
		}
	}

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.AddWeighted(base, 1-blendAlpha, coloredMask, blendAlpha, 0, &blended)

	for i, m := range ordered {
		stampNumber(&blended, i+1, m)
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, blended)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	png := make([]byte, buf.Len())
	copy(png, buf.GetBytes())

	return &Result{
		PNG:     png,
		Ordered: ordered,
		Colors:  colors,
		Width:   cols,
		Height:  rows,
	}, nil
}

// stampNumber draws a white badge circle with the region's rank numeral at
// the mask centroid.
func stampNumber(img *gocv.Mat, number int, m masks.Mask) {
	cx, cy := Centroid(m)
	label := strconv.Itoa(number)

	const (
		fontScale = 1.5
		thickness = 3
	)
	textSize := gocv.GetTextSize(label, gocv.FontHersheySimplex, fontScale, thickness)

	radius := max(textSize.X, textSize.Y)/2 + 10
	center := image.Pt(cx, cy)

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}

	gocv.Circle(img, center, radius, white, -1)
	gocv.Circle(img, center, radius, black, 2)

	origin := image.Pt(cx-textSize.X/2, cy+textSize.Y/2)
	gocv.PutText(img, label, origin, gocv.FontHersheySimplex, fontScale, black, thickness)
}
