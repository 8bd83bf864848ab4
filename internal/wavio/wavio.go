// Package wavio holds the WAV and resampling glue shared by the command-line
// tools. Nothing here is safe for the audio thread.
package wavio

import (
	"fmt"
	"os"
	"path/filepath"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// ReadStereoWAV decodes a WAV file into separate left/right channels. Mono
// files are duplicated to both channels; extra channels are dropped.
func ReadStereoWAV(path string) (left, right []float32, sampleRate int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, nil, 0, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, 0, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, nil, 0, fmt.Errorf("invalid wav buffer: %s", path)
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	left = make([]float32, frames)
	right = make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = buf.Data[i*ch]
		if ch > 1 {
			right[i] = buf.Data[i*ch+1]
		} else {
			right[i] = left[i]
		}
	}
	return left, right, buf.Format.SampleRate, nil
}

// ResampleStereo converts both channels from one sample rate to another.
// It returns the inputs untouched when the rates already match.
func ResampleStereo(left, right []float32, fromRate, toRate int) ([]float32, []float32, error) {
	if fromRate == toRate {
		return left, right, nil
	}
	l, err := resampleChannel(left, fromRate, toRate)
	if err != nil {
		return nil, nil, err
	}
	r, err := resampleChannel(right, fromRate, toRate)
	if err != nil {
		return nil, nil, err
	}
	// Resampled channels can differ by a frame at the edges.
	if len(r) < len(l) {
		l = l[:len(r)]
	} else if len(l) < len(r) {
		r = r[:len(l)]
	}
	return l, r, nil
}

func resampleChannel(in []float32, fromRate, toRate int) ([]float32, error) {
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	in64 := make([]float64, len(in))
	for i, v := range in {
		in64[i] = float64(v)
	}
	out64 := r.Process(in64)
	out := make([]float32, len(out64))
	for i, v := range out64 {
		out[i] = float32(v)
	}
	return out, nil
}

// WriteStereoWAV writes left/right channels as a 16-bit stereo WAV file,
// creating parent directories as needed.
func WriteStereoWAV(path string, left, right []float32, sampleRate int) error {
	if len(left) != len(right) {
		return fmt.Errorf("left/right length mismatch")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	defer enc.Close()

	data := make([]float32, len(left)*2)
	for i := range left {
		data[i*2] = left[i]
		data[i*2+1] = right[i]
	}
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 2,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}
