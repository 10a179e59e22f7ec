package opengl

import (
	"fmt"
	"log"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"hall-of-fame/scene"
)

// images tracks every scene.Image uploaded to the GPU. Images are decoded
// on loader goroutines and only reach GL here, on first bind.
type images struct {
	live map[*scene.Image]struct{}
	// failed images are not retried every frame
	failed map[*scene.Image]error
}

func newImages() *images {
	return &images{
		live:   make(map[*scene.Image]struct{}),
		failed: make(map[*scene.Image]error),
	}
}

// bind makes img the texture on unit 0, uploading it first if needed. It
// reports false if img cannot be sampled.
func (t *images) bind(img *scene.Image) bool {
	if img == nil {
		return false
	}
	if _, bad := t.failed[img]; bad {
		return false
	}
	if img.GLID == 0 {
		if err := upload(img); err != nil {
			log.Printf("[GL] texture upload: %v", err)
			t.failed[img] = err
			return false
		}
		t.live[img] = struct{}{}
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, img.GLID)
	return true
}

func (t *images) release(img *scene.Image) {
	if img == nil || img.GLID == 0 {
		return
	}
	gl.DeleteTextures(1, &img.GLID)
	img.GLID = 0
	delete(t.live, img)
}

func (t *images) releaseAll() {
	for img := range t.live {
		t.release(img)
	}
}

// upload creates a repeating, mipmapped RGBA8 texture from img and stores
// its id in img.GLID.
func upload(img *scene.Image) error {
	if img.Width == 0 || img.Height == 0 || len(img.Pixels) < img.Width*img.Height*4 {
		return fmt.Errorf("image %q has no pixel data", img.Name)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	// Wallpapers tile across whole walls; labels sit inside [0,1] anyway.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Width), int32(img.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pixels[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	img.GLID = id
	return nil
}
