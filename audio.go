package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// echoVoice is one scheduled echo ping: a start position on the stream's frame
// clock and the amplitude derived from the returning ray's arrival energy.
type echoVoice struct {
	startFrame int64
	amp        float32
}

// echoAudioStream synthesizes audible echo pings for Ebiten's audio player.
// Returning rays schedule voices ahead of the stream clock; Read mixes every
// active voice into 16-bit stereo frames.
type echoAudioStream struct {
	mu         sync.Mutex
	clock      int64
	voices     []echoVoice
	pingSample []float32
}

func newEchoAudioStream() *echoAudioStream {
	return &echoAudioStream{}
}

// setPingSample replaces the synthesized tone with a decoded WAV sample.
func (s *echoAudioStream) setPingSample(samples []float32) {
	s.mu.Lock()
	s.pingSample = samples
	s.mu.Unlock()
}

// schedule queues an echo to start delayFrames ahead of the current stream
// position. Excess voices are dropped oldest-first to bound mixing cost.
func (s *echoAudioStream) schedule(delayFrames int, amp float32) {
	if amp <= 0 {
		return
	}
	if amp > 1 {
		amp = 1
	}
	if delayFrames < 0 {
		delayFrames = 0
	}
	s.mu.Lock()
	s.voices = append(s.voices, echoVoice{startFrame: s.clock + int64(delayFrames), amp: amp})
	if len(s.voices) > echoMaxPending {
		s.voices = s.voices[len(s.voices)-echoMaxPending:]
	}
	s.mu.Unlock()
}

// voiceFrames returns the length of one ping in frames.
func (s *echoAudioStream) voiceFrames() int64 {
	if len(s.pingSample) > 0 {
		return int64(len(s.pingSample))
	}
	return int64(echoPingSeconds * audioSampleRate)
}

func (s *echoAudioStream) Read(p []byte) (int, error) {
	frameCount := len(p) / audioFrameBytes
	if frameCount == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	length := s.voiceFrames()
	for i := 0; i < frameCount; i++ {
		frame := s.clock + int64(i)
		var mixed float32
		for _, v := range s.voices {
			offset := frame - v.startFrame
			if offset < 0 || offset >= length {
				continue
			}
			mixed += v.amp * s.voiceSample(offset, length)
		}
		if mixed > 1 {
			mixed = 1
		} else if mixed < -1 {
			mixed = -1
		}
		sample := int16(mixed * 28000)
		base := i * audioFrameBytes
		p[base] = byte(sample)
		p[base+1] = byte(sample >> 8)
		p[base+2] = p[base]
		p[base+3] = p[base+1]
	}
	s.clock += int64(frameCount)

	// Prune voices that finished before the new clock position.
	live := s.voices[:0]
	for _, v := range s.voices {
		if v.startFrame+length > s.clock {
			live = append(live, v)
		}
	}
	s.voices = live

	return frameCount * audioFrameBytes, nil
}

// voiceSample produces one mono sample of a ping at the given frame offset:
// either the loaded WAV sample or an exponentially decaying sine tone.
func (s *echoAudioStream) voiceSample(offset, length int64) float32 {
	if len(s.pingSample) > 0 {
		return s.pingSample[offset]
	}
	t := float64(offset) / audioSampleRate
	envelope := math.Exp(-t * 5 / echoPingSeconds)
	return float32(envelope * math.Sin(2*math.Pi*echoPingHz*t))
}

func (s *echoAudioStream) Close() error { return nil }

func (s *echoAudioStream) Seek(offset int64, whence int) (int64, error) {
	// Ebiten's audio player probes the stream with no-op seek requests.
	if offset == 0 {
		switch whence {
		case io.SeekStart, io.SeekCurrent, io.SeekEnd:
			return 0, nil
		}
	}
	return 0, io.ErrUnexpectedEOF
}

// loadPingSample decodes the WAV at path and returns stereo-averaged samples
// at sampleRate.
func loadPingSample(sampleRate int, path string) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	decoded, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading decoded %q: %w", path, err)
	}
	samples := decodeStereoI16ToFloat(decoded)
	if len(samples) == 0 {
		return nil, fmt.Errorf("wav %q has no usable samples", path)
	}
	return samples, nil
}

func decodeStereoI16ToFloat(pcm []byte) []float32 {
	frameCount := len(pcm) / 4
	if frameCount == 0 {
		return nil
	}
	samples := make([]float32, frameCount)
	for i := 0; i < frameCount; i++ {
		offset := i * 4
		left := int16(binary.LittleEndian.Uint16(pcm[offset : offset+2]))
		right := int16(binary.LittleEndian.Uint16(pcm[offset+2 : offset+4]))
		samples[i] = (float32(left) + float32(right)) * (0.5 / 32768.0)
	}
	return samples
}
