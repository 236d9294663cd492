// Package beep loads and generates the tone that is played while the
// CHIP-8 sound timer is active.
package beep

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// Default parameters of the generated tone.
const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 440
	DefaultVolume     = 0.25
)

var errNoSamples = errors.New("no samples")

// Sound is a mono sample buffer with values in the range -1 to 1.
type Sound struct {
	SampleRate int
	Data       []float32
}

// Duration returns the playing time of the sound.
func (s Sound) Duration() time.Duration {
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(s.Data)) * time.Second / time.Duration(s.SampleRate)
}

// U8 converts the sound to unsigned 8 bit samples centered at 128.
func (s Sound) U8() []byte {
	out := make([]byte, len(s.Data))
	for i, v := range s.Data {
		v = float32(math.Max(-1, math.Min(1, float64(v))))
		out[i] = byte(128 + int(math.Round(float64(v)*127)))
	}
	return out
}

// Load reads a sound file, the format is selected by the file extension.
// Only the first channel of multi channel files is used.
func Load(filename string) (Sound, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Sound{}, fmt.Errorf("opening sound file '%s': %w", filename, err)
	}
	defer func() { _ = file.Close() }()

	var sound Sound
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".wav":
		sound, err = DecodeWAV(file)
	case ".mp3":
		sound, err = DecodeMP3(file)
	default:
		return Sound{}, fmt.Errorf("unsupported sound file extension '%s'", ext)
	}
	if err != nil {
		return Sound{}, fmt.Errorf("decoding sound file '%s': %w", filename, err)
	}
	return sound, nil
}

// DecodeWAV decodes a PCM wav stream.
func DecodeWAV(r io.ReadSeeker) (Sound, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Sound{}, errors.New("wav: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Sound{}, fmt.Errorf("wav: %w", err)
	}
	floatBuf := buf.AsFloat32Buffer()

	channels := int(dec.NumChans)
	if channels == 0 {
		channels = 1
	}

	// 8 bit wav samples are unsigned, wider ones are signed
	var offset float32
	scale := float32(int(1) << (dec.BitDepth - 1))
	if dec.BitDepth == 8 {
		offset = 128
	}

	data := make([]float32, 0, len(floatBuf.Data)/channels)
	for i := 0; i < len(floatBuf.Data); i += channels {
		data = append(data, (floatBuf.Data[i]-offset)/scale)
	}
	if len(data) == 0 {
		return Sound{}, fmt.Errorf("wav: %w", errNoSamples)
	}

	return Sound{
		SampleRate: int(dec.SampleRate),
		Data:       data,
	}, nil
}

// DecodeMP3 decodes an mp3 stream.
func DecodeMP3(r io.Reader) (Sound, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Sound{}, fmt.Errorf("mp3: %w", err)
	}

	// the decoded stream is always 16 bit little endian stereo, so a
	// sample consists of 4 bytes of which the first 2 are the left channel
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return Sound{}, fmt.Errorf("mp3: %w", err)
	}

	data := make([]float32, 0, len(pcm)/4)
	for i := 0; i+1 < len(pcm); i += 4 {
		v := int16(binary.LittleEndian.Uint16(pcm[i:]))
		data = append(data, float32(v)/32768)
	}
	if len(data) == 0 {
		return Sound{}, fmt.Errorf("mp3: %w", errNoSamples)
	}

	return Sound{
		SampleRate: dec.SampleRate(),
		Data:       data,
	}, nil
}

// SquareWave generates a square wave tone that loops without a click when
// duration is a multiple of the period.
func SquareWave(sampleRate, frequency int, duration time.Duration, volume float32) Sound {
	samples := int(time.Duration(sampleRate) * duration / time.Second)
	data := make([]float32, samples)

	halfPeriod := float64(sampleRate) / float64(frequency) / 2
	for i := range data {
		if int(float64(i)/halfPeriod)%2 == 0 {
			data[i] = volume
		} else {
			data[i] = -volume
		}
	}

	return Sound{
		SampleRate: sampleRate,
		Data:       data,
	}
}

// Tone returns the sound loaded from filename, or a generated square wave
// if no file name is given.
func Tone(filename string) (Sound, error) {
	if filename == "" {
		return SquareWave(DefaultSampleRate, DefaultFrequency, 100*time.Millisecond, DefaultVolume), nil
	}
	return Load(filename)
}
