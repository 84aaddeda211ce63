package main

import (
	"encoding/binary"
	"fmt"
)

// IMA ADPCM block decoder for device audio frames.
//
// Each frame payload carries one block: a 4-byte header (little-endian int16
// initial predictor, uint8 step index, one reserved byte) followed by packed
// 4-bit samples, low nibble first.

var stepSizeTable = [89]int{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 19, 21, 23, 25, 28, 31, 34,
	37, 41, 45, 50, 55, 60, 66, 73, 80, 88, 97, 107, 118, 130, 143,
	157, 173, 190, 209, 230, 253, 279, 307, 337, 371, 408, 449, 494,
	544, 598, 658, 724, 796, 876, 963, 1060, 1166, 1282, 1411, 1552,
	1707, 1878, 2066, 2272, 2499, 2749, 3024, 3327, 3660, 4026,
	4428, 4871, 5358, 5894, 6484, 7132, 7845, 8630, 9493, 10442,
	11487, 12635, 13899, 15289, 16818, 18500, 20350, 22385, 24623,
	27086, 29794, 32767,
}

var indexAdjustTable = [16]int{
	-1, -1, -1, -1, // +0 - +3, decrease the step size
	2, 4, 6, 8, // +4 - +7, increase the step size
	-1, -1, -1, -1, // -0 - -3, decrease the step size
	2, 4, 6, 8, // -4 - -7, increase the step size
}

const (
	adpcmBlockHeaderSize = 4
	adpcmMaxStepIndex    = 88
)

// clamp restricts a value to a range
func clamp(x, xmin, xmax int) int {
	if x < xmin {
		return xmin
	}
	if x > xmax {
		return xmax
	}
	return x
}

// DecodeADPCMBlock decodes one IMA ADPCM block to 16-bit little-endian PCM.
// Every compressed byte yields two samples, so the output is always
// 4*(len(block)-4) bytes. A step index outside [0,88] fails the whole block;
// callers treat that as a per-frame skip, not a session error.
func DecodeADPCMBlock(block []byte) ([]byte, error) {
	if len(block) < adpcmBlockHeaderSize {
		return nil, fmt.Errorf("ADPCM block too short: %d bytes", len(block))
	}

	predictor := int(int16(binary.LittleEndian.Uint16(block[0:2])))
	index := int(block[2])
	// block[3] is reserved
	if index > adpcmMaxStepIndex {
		return nil, fmt.Errorf("ADPCM step index out of range: %d", index)
	}

	data := block[adpcmBlockHeaderSize:]
	out := make([]byte, len(data)*4)
	step := stepSizeTable[index]

	pos := 0
	decodeNibble := func(nibble byte) {
		diff := step >> 3
		if nibble&1 != 0 {
			diff += step >> 2
		}
		if nibble&2 != 0 {
			diff += step >> 1
		}
		if nibble&4 != 0 {
			diff += step
		}
		if nibble&8 != 0 {
			diff = -diff
		}

		predictor = clamp(predictor+diff, -32768, 32767)
		index = clamp(index+indexAdjustTable[nibble], 0, adpcmMaxStepIndex)
		step = stepSizeTable[index]

		binary.LittleEndian.PutUint16(out[pos:], uint16(int16(predictor)))
		pos += 2
	}

	for _, b := range data {
		decodeNibble(b & 0x0F)
		decodeNibble(b >> 4)
	}

	return out, nil
}
