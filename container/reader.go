package container

import (
	"encoding/binary"
	"io"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// DecodeHeader reads and sanity checks the header at the start of a
// container. The frames themselves are not read.
func DecodeHeader(r io.Reader) (Header, error) {
	var tmp [HeaderSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return Header{}, err
		}
		return Header{}, ErrShortHeader
	}

	var h Header
	copy(h.Signature[:], tmp[0:4])
	h.HeaderSize = binary.LittleEndian.Uint16(tmp[4:])
	h.FrameDataOffset = binary.LittleEndian.Uint16(tmp[6:])
	h.FileSize = binary.LittleEndian.Uint32(tmp[8:])
	h.Width = binary.LittleEndian.Uint16(tmp[12:])
	h.Height = binary.LittleEndian.Uint16(tmp[14:])
	h.BytesPerPixel = binary.LittleEndian.Uint16(tmp[16:])
	h.FrameCount = binary.LittleEndian.Uint16(tmp[18:])

	if h.HeaderSize != HeaderSize || h.BytesPerPixel != BytesPerPixel {
		return Header{}, ErrBadHeader
	}
	if uint32(h.FrameDataOffset) != HeaderSize+durationSize*uint32(h.FrameCount) {
		return Header{}, ErrBadHeader
	}
	if uint64(h.FileSize) != uint64(h.FrameDataOffset)+uint64(h.FrameCount)*uint64(h.Width)*uint64(h.Height)*BytesPerPixel {
		return Header{}, ErrBadHeader
	}

	return h, nil
}
