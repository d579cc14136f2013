package match

// Image is an opaque 2D pixel buffer.
//
// The engine never touches pixels; it only needs dimensions and the
// ability to take a value copy when handing a frame to a background
// task.
type Image interface {
	Width() int
	Height() int
	Stride() int

	// Format names the pixel format ("gray8", "bgr24", ...).
	Format() string

	// Clone returns an independent copy of the image.
	Clone() Image
}

// Raster is a simple single-channel 8-bit Image.
//
// It exists so that tests and the demo runtime have a concrete frame
// type; real deployments wrap their camera library's buffer instead.
type Raster struct {
	W, H int
	Pix  []byte
}

// NewRaster makes a zeroed WxH gray raster.
func NewRaster(w, h int) *Raster {
	return &Raster{
		W:   w,
		H:   h,
		Pix: make([]byte, w*h),
	}
}

func (r *Raster) Width() int  { return r.W }
func (r *Raster) Height() int { return r.H }
func (r *Raster) Stride() int { return r.W }

func (r *Raster) Format() string { return "gray8" }

// Clone copies the pixel buffer.
func (r *Raster) Clone() Image {
	pix := make([]byte, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{
		W:   r.W,
		H:   r.H,
		Pix: pix,
	}
}
