package gif2anim

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/gif2anim/container"
	"github.com/bodgit/gif2anim/frame"
	"github.com/bodgit/gif2anim/profile"
)

// Convert reads the animation from open, which is called once per pass, and
// writes a container for profile p to w.
func (c *Converter) Convert(open frame.Opener, w io.Writer, p profile.Profile) error {
	meta, images, err := c.render(open, p)
	if err != nil {
		return err
	}

	frames := make([]container.Frame, len(images))
	for i, m := range images {
		frames[i] = container.Frame{
			Pix:      m.Pix,
			Duration: meta.Durations[i],
		}
	}

	return container.Encode(w, p, frames)
}

func fileOpener(file string) frame.Opener {
	return frame.GIFOpener(func() (io.ReadCloser, error) {
		return os.Open(file)
	})
}

func sha1File(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

func writeFile(file string, b []byte) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ConvertFile converts the GIF at src into a container at dst using the
// format named by tag. The tag is checked before any file is touched.
func (c *Converter) ConvertFile(src, dst, tag string) error {
	p, err := profile.Lookup(tag)
	if err != nil {
		return err
	}

	var sha string
	if c.cache != nil {
		if sha, err = sha1File(src); err != nil {
			return &DecodeError{err}
		}

		b, err := c.cache.Find(sha, p.Tag)
		if err != nil {
			return err
		}
		if b != nil {
			c.logger.Info("using cached conversion", "src", src, "sha1", sha, "format", p.Tag)
			return writeFile(dst, b)
		}
	}

	b := new(bytes.Buffer)
	if err := c.Convert(fileOpener(src), b, p); err != nil {
		return err
	}

	if c.cache != nil {
		if err := c.cache.Store(sha, p.Tag, b.Bytes()); err != nil {
			return err
		}
	}

	c.logger.Info("writing container", "dst", dst, "format", p.Tag, "bytes", b.Len())

	return writeFile(dst, b.Bytes())
}
