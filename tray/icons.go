package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

// Status icons, generated at startup. Windows needs ICO; everything else
// takes PNG.
var (
	iconIdle      = makeIcon(color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF})
	iconRecording = makeIcon(color.NRGBA{R: 0xD0, G: 0x30, B: 0x30, A: 0xFF})
	iconBusy      = makeIcon(color.NRGBA{R: 0xD0, G: 0xA0, B: 0x20, A: 0xFF})
)

const iconSize = 22

// makeIcon renders a filled circle of the given color.
func makeIcon(c color.NRGBA) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	cx, cy := float64(iconSize)/2, float64(iconSize)/2
	r := float64(iconSize)/2 - 1

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		return icoFromPNG(buf.Bytes())
	}
	return buf.Bytes()
}

// icoFromPNG wraps a PNG in a single-image ICO container. Vista and later
// accept PNG-compressed entries directly.
func icoFromPNG(data []byte) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian

	// ICONDIR
	binary.Write(&buf, le, uint16(0)) // reserved
	binary.Write(&buf, le, uint16(1)) // type: icon
	binary.Write(&buf, le, uint16(1)) // image count

	// ICONDIRENTRY
	buf.WriteByte(iconSize)           // width
	buf.WriteByte(iconSize)           // height
	buf.WriteByte(0)                  // palette
	buf.WriteByte(0)                  // reserved
	binary.Write(&buf, le, uint16(1)) // color planes
	binary.Write(&buf, le, uint16(32))
	binary.Write(&buf, le, uint32(len(data)))
	binary.Write(&buf, le, uint32(22)) // offset past the headers

	buf.Write(data)
	return buf.Bytes()
}
