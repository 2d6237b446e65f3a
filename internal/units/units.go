// Package units converts raw bit-rate, sample-rate and byte-size numbers
// into the human-readable labels shown next to stream variants.
package units

import (
	"math"

	"github.com/dustin/go-humanize"
)

// UnknownSize is reported when a variant has no usable declared length.
const UnknownSize = "unknown size"

// BitUnits holds one bit quantity expressed in every supported unit.
type BitUnits struct {
	B  float64
	KB float64
	MB float64
	GB float64
}

// HzUnits holds one frequency expressed in every supported unit.
type HzUnits struct {
	Hz  float64
	KHz float64
	MHz float64
}

// BitsToHuman converts a bit quantity into b/kb/mb/gb values. Unless exact
// is set, each value is rounded to decimals places.
func BitsToHuman(bits float64, decimals int, exact bool) BitUnits {
	u := BitUnits{
		B:  bits,
		KB: bits / 1024,
		MB: bits / 1024 / 1024,
		GB: bits / 1024 / 1024 / 1024,
	}
	if !exact {
		u.B = round(u.B, decimals)
		u.KB = round(u.KB, decimals)
		u.MB = round(u.MB, decimals)
		u.GB = round(u.GB, decimals)
	}
	return u
}

// HzToHuman converts a frequency into hz/khz/mhz values. Unless exact is
// set, each value is rounded to decimals places.
func HzToHuman(hz float64, decimals int, exact bool) HzUnits {
	u := HzUnits{
		Hz:  hz,
		KHz: hz / 1000,
		MHz: hz / 1000 / 1000,
	}
	if !exact {
		u.Hz = round(u.Hz, decimals)
		u.KHz = round(u.KHz, decimals)
		u.MHz = round(u.MHz, decimals)
	}
	return u
}

// BytesToHuman renders a byte size as a human string, or UnknownSize when
// the size is missing.
func BytesToHuman(size int64) string {
	if size <= 0 {
		return UnknownSize
	}
	return humanize.Bytes(uint64(size))
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
