package imaging

import (
	"image"
	"os"

	"github.com/disintegration/imaging"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
	"github.com/skdsam/image-scanner/internal/fsutil"
)

// Action names a geometric or metadata transform applied to a file in place.
type Action string

const (
	ActionRotate90  Action = "rotate90"  // quarter turn clockwise
	ActionRotate180 Action = "rotate180" // half turn
	ActionRotate270 Action = "rotate270" // quarter turn counter-clockwise
	ActionFlipH     Action = "flip_h"    // mirror left-right
	ActionFlipV     Action = "flip_v"    // mirror top-bottom
	ActionStripMeta Action = "strip_meta"
)

// Actions lists every supported action in a stable order.
var Actions = []Action{ActionRotate90, ActionRotate180, ActionRotate270, ActionFlipH, ActionFlipV, ActionStripMeta}

// ParseAction validates an action name. Unknown names fail with an
// unknown-action error.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions {
		if string(a) == name {
			return a, nil
		}
	}
	return "", apperrors.NewUnknownActionError(name)
}

// Apply returns the transformed pixels. The imaging library rotates
// counter-clockwise, so a clockwise quarter turn is its Rotate270.
//
// Paletted and 16-bit images keep their concrete type (and so their palette
// or bit depth). Everything else comes back as 8-bit *image.NRGBA.
//
// ActionStripMeta returns img unchanged: metadata is dropped because the
// encoders never write it back, not because anything is removed explicitly.
func Apply(img image.Image, action Action) image.Image {
	if action == ActionStripMeta {
		return img
	}
	if out, ok := remapExact(img, action); ok {
		return out
	}

	switch action {
	case ActionRotate90:
		return imaging.Rotate270(img)
	case ActionRotate180:
		return imaging.Rotate180(img)
	case ActionRotate270:
		return imaging.Rotate90(img)
	case ActionFlipH:
		return imaging.FlipH(img)
	case ActionFlipV:
		return imaging.FlipV(img)
	default:
		return img
	}
}

// sourcePoint returns, for destination pixel (dx, dy), the source offset it
// is copied from, given a w x h source.
func sourcePoint(action Action, w, h, dx, dy int) (int, int) {
	switch action {
	case ActionRotate90:
		return dy, h - 1 - dx
	case ActionRotate180:
		return w - 1 - dx, h - 1 - dy
	case ActionRotate270:
		return w - 1 - dy, dx
	case ActionFlipH:
		return w - 1 - dx, dy
	case ActionFlipV:
		return dx, h - 1 - dy
	default:
		return dx, dy
	}
}

// remapExact moves pixels without any color conversion for the layouts the
// imaging library would otherwise flatten to 8-bit NRGBA. The result has
// bounds starting at the origin.
func remapExact(img image.Image, action Action) (image.Image, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if action == ActionRotate90 || action == ActionRotate270 {
		dw, dh = h, w
	}
	rect := image.Rect(0, 0, dw, dh)

	var copyPixel func(dx, dy, sx, sy int)
	var out image.Image

	switch src := img.(type) {
	case *image.Paletted:
		dst := image.NewPaletted(rect, src.Palette)
		copyPixel = func(dx, dy, sx, sy int) { dst.SetColorIndex(dx, dy, src.ColorIndexAt(sx, sy)) }
		out = dst
	case *image.RGBA64:
		dst := image.NewRGBA64(rect)
		copyPixel = func(dx, dy, sx, sy int) { dst.SetRGBA64(dx, dy, src.RGBA64At(sx, sy)) }
		out = dst
	case *image.NRGBA64:
		dst := image.NewNRGBA64(rect)
		copyPixel = func(dx, dy, sx, sy int) { dst.SetNRGBA64(dx, dy, src.NRGBA64At(sx, sy)) }
		out = dst
	case *image.Gray16:
		dst := image.NewGray16(rect)
		copyPixel = func(dx, dy, sx, sy int) { dst.SetGray16(dx, dy, src.Gray16At(sx, sy)) }
		out = dst
	default:
		return nil, false
	}

	for dy := 0; dy < dh; dy++ {
		for dx := 0; dx < dw; dx++ {
			sx, sy := sourcePoint(action, w, h, dx, dy)
			copyPixel(dx, dy, b.Min.X+sx, b.Min.Y+sy)
		}
	}
	return out, true
}

// TransformFile applies action to the image at path and overwrites the file.
//
// The action is validated before anything is read, so an unknown action never
// touches the file. The new bytes are written to a temporary sibling and
// renamed over the original only after encoding succeeds, so a failure at
// any step leaves the original bytes intact.
//
// For lossy formats (JPEG) every call re-encodes and loses some quality.
func TransformFile(path, actionName string) error {
	action, err := ParseAction(actionName)
	if err != nil {
		return err
	}

	img, _, err := Open(path)
	if err != nil {
		return err
	}

	data, err := Encode(Apply(img, action), path)
	if err != nil {
		return err
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fsutil.WriteFileAtomic(path, data, perm); err != nil {
		return apperrors.NewIOError("failed to save transformed image", err)
	}
	return nil
}
