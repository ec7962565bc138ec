package renderer

import (
	"image"
	"image/color"

	"github.com/achilleasa/kdaccel/config"
	"github.com/achilleasa/kdaccel/tracer"
	"github.com/achilleasa/kdaccel/types"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

var (
	// Depth ramp end points; near hits are bright.
	nearColor, _ = colorful.Hex("#fde725")
	farColor, _  = colorful.Hex("#440154")

	missColor = color.NRGBA{0, 0, 0, 255}
)

// Convert a traced frame into an image. Pixels whose primary ray escaped the
// scene are black.
func Shade(frame *tracer.Frame, mode string) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(frame.Width), int(frame.Height)))

	minDepth, maxDepth, _ := frame.DepthRange()
	depthScaler := float32(0)
	if maxDepth > minDepth {
		depthScaler = 1.0 / (maxDepth - minDepth)
	}

	for y := uint32(0); y < frame.Height; y++ {
		for x := uint32(0); x < frame.Width; x++ {
			if !frame.IsHit(x, y) {
				img.SetNRGBA(int(x), int(y), missColor)
				continue
			}

			offset := y*frame.Width + x
			switch mode {
			case config.ModeNormals:
				img.SetNRGBA(int(x), int(y), shadeNormal(frame.Normals[offset]))
			default:
				t := (frame.Depth[offset] - minDepth) * depthScaler
				img.SetNRGBA(int(x), int(y), shadeDepth(t))
			}
		}
	}

	return img
}

// Map normalized depth to the ramp between the near and far colors.
func shadeDepth(t float32) color.NRGBA {
	r, g, b := nearColor.BlendLab(farColor, float64(t)).Clamped().RGB255()
	return color.NRGBA{r, g, b, 255}
}

// Map each normal component from [-1, 1] to a color channel.
func shadeNormal(n types.Vec3) color.NRGBA {
	c := colorful.Color{
		R: float64(n[0]*0.5 + 0.5),
		G: float64(n[1]*0.5 + 0.5),
		B: float64(n[2]*0.5 + 0.5),
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{r, g, b, 255}
}

// Save image to a file; the encoder is selected by the file extension.
func Save(img image.Image, filename string) error {
	if err := imaging.Save(img, filename); err != nil {
		return errors.Wrapf(err, "renderer: could not save image to %q", filename)
	}
	return nil
}
