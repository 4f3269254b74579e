/*
Package profile holds the fixed set of output formats understood by the
display firmware.

Each format is identified by a short tag and fixes the frame dimensions and
the four byte signature written at the start of the container. Several tags
share the "ANIM" signature and differ only in resolution.
*/
package profile

import (
	"errors"
	"fmt"
)

// ErrUnknownTag is returned when a format tag is not in the table.
var ErrUnknownTag = errors.New("profile: unknown format tag")

// Profile describes the frame geometry and signature of one output format.
type Profile struct {
	Tag       string
	Width     int
	Height    int
	Signature [4]byte
}

// Pixels returns the number of pixels in a single frame.
func (p Profile) Pixels() int {
	return p.Width * p.Height
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%dx%d, %s)", p.Tag, p.Width, p.Height, p.Signature[:])
}

var (
	sigANIM = [4]byte{'A', 'N', 'I', 'M'}
	sigAUXI = [4]byte{'A', 'U', 'X', 'I'}
	sigAMFT = [4]byte{'A', 'M', 'F', 'T'}
)

// Table order is also the order reported by Tags
var profiles = [...]Profile{
	{Tag: "anim", Width: 80, Height: 80, Signature: sigANIM},
	{Tag: "auxi", Width: 80, Height: 30, Signature: sigAUXI},
	{Tag: "amft", Width: 10, Height: 30, Signature: sigAMFT},
	{Tag: "sml", Width: 60, Height: 60, Signature: sigANIM},
	{Tag: "crs", Width: 128, Height: 128, Signature: sigANIM},
}

// Lookup returns the profile for the given tag.
func Lookup(tag string) (Profile, error) {
	for _, p := range profiles {
		if p.Tag == tag {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
}

// Tags returns every known format tag.
func Tags() []string {
	tags := make([]string, 0, len(profiles))
	for _, p := range profiles {
		tags = append(tags, p.Tag)
	}
	return tags
}

// All returns a copy of the whole table.
func All() []Profile {
	return append([]Profile(nil), profiles[:]...)
}
