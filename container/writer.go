package container

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bodgit/gif2anim/profile"
)

type encoder struct {
	w   *bufio.Writer
	tmp [2]byte
}

func (e *encoder) writeHeader(h Header) error {
	return binary.Write(e.w, binary.LittleEndian, &h)
}

func (e *encoder) writeDurations(frames []Frame) error {
	for _, f := range frames {
		binary.LittleEndian.PutUint16(e.tmp[:], f.Duration)
		if _, err := e.w.Write(e.tmp[:]); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writePixels(frames []Frame) error {
	for _, f := range frames {
		for _, p := range f.Pix {
			// Pixels are big-endian, unlike everything else
			binary.BigEndian.PutUint16(e.tmp[:], p)
			if _, err := e.w.Write(e.tmp[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Encode writes frames to w as a container for profile p. Every frame must
// hold exactly p.Width * p.Height pixels.
func Encode(w io.Writer, p profile.Profile, frames []Frame) error {
	h, err := NewHeader(p, len(frames))
	if err != nil {
		return err
	}

	for _, f := range frames {
		if len(f.Pix) != p.Pixels() {
			return ErrFrameSize
		}
	}

	e := encoder{w: bufio.NewWriter(w)}

	if err := e.writeHeader(h); err != nil {
		return err
	}
	if err := e.writeDurations(frames); err != nil {
		return err
	}
	if err := e.writePixels(frames); err != nil {
		return err
	}

	return e.w.Flush()
}

// Marshal returns the encoded container.
func Marshal(p profile.Profile, frames []Frame) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := Encode(b, p, frames); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
