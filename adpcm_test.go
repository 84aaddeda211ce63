package main

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecodeADPCMBlockSilence(t *testing.T) {
	// Predictor 0, step index 0: zero nibbles decode to zero samples
	block := make([]byte, 84)
	pcm, err := DecodeADPCMBlock(block)
	require.NoError(t, err)
	require.Len(t, pcm, 320)
	for i := 0; i < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		assert.Zero(t, sample, "sample %d", i/2)
	}
}

func TestDecodeADPCMBlockRejects(t *testing.T) {
	_, err := DecodeADPCMBlock([]byte{0, 0, 0})
	assert.Error(t, err, "short block")

	bad := []byte{0, 0, 89, 0, 0x11, 0x22}
	_, err = DecodeADPCMBlock(bad)
	assert.Error(t, err, "step index out of range")
}

func TestDecodeADPCMBlockHeaderOnly(t *testing.T) {
	pcm, err := DecodeADPCMBlock([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Empty(t, pcm)
}

func TestDecodeADPCMBlockOutputLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 512).Draw(t, "dataBytes")
		index := rapid.IntRange(0, 88).Draw(t, "index")
		predictor := rapid.Int16().Draw(t, "predictor")

		block := make([]byte, adpcmBlockHeaderSize+n)
		binary.LittleEndian.PutUint16(block[0:2], uint16(predictor))
		block[2] = byte(index)
		for i := range block[adpcmBlockHeaderSize:] {
			block[adpcmBlockHeaderSize+i] = rapid.Byte().Draw(t, "nibbles")
		}

		pcm, err := DecodeADPCMBlock(block)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(pcm) != 4*n {
			t.Fatalf("got %d PCM bytes for %d compressed bytes, want %d", len(pcm), n, 4*n)
		}
	})
}

func TestDecodeADPCMBlockKnownRamp(t *testing.T) {
	// Nibble 7 from a zero state: diff = 0 + 1 + 3 + 7 = 11 at step 7, then
	// the index jumps by 8 and the next nibble 7 uses step 16: diff = 30.
	block := []byte{0, 0, 0, 0, 0x77}
	pcm, err := DecodeADPCMBlock(block)
	require.NoError(t, err)
	require.Len(t, pcm, 4)

	first := int16(binary.LittleEndian.Uint16(pcm[0:2]))
	second := int16(binary.LittleEndian.Uint16(pcm[2:4]))
	assert.Equal(t, int16(11), first)
	assert.Equal(t, int16(11+30), second)
}

func TestDecodeADPCMBlockClampsPredictor(t *testing.T) {
	// Start at the positive rail with the largest step; positive nibbles
	// must not wrap around.
	block := make([]byte, 4+8)
	binary.LittleEndian.PutUint16(block[0:2], uint16(int16(32767)))
	block[2] = 88
	for i := 4; i < len(block); i++ {
		block[i] = 0x77
	}

	pcm, err := DecodeADPCMBlock(block)
	require.NoError(t, err)
	for i := 0; i < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		assert.Equal(t, int16(32767), sample)
	}
}

func TestStepTables(t *testing.T) {
	assert.Len(t, stepSizeTable, 89)
	assert.Len(t, indexAdjustTable, 16)
	assert.Equal(t, 7, stepSizeTable[0])
	assert.Equal(t, 32767, stepSizeTable[88])
	for i := 1; i < len(stepSizeTable); i++ {
		assert.Greater(t, stepSizeTable[i], stepSizeTable[i-1], "step table must be strictly increasing")
	}
}
