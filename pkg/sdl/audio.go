package sdl

import (
	"fmt"

	"github.com/orcalinux/chip8-emulator/internal/beep"
	"github.com/veandco/go-sdl2/sdl"
)

// Audio plays a looping tone using SDL
type Audio struct {
	id      sdl.AudioDeviceID
	spec    sdl.AudioSpec
	tone    []uint8
	playing bool
}

// NewAudio opens the default audio device for the tone loaded from the
// given file, or a generated square wave if no file is given.
func NewAudio(beepFile string) (*Audio, error) {
	sound, err := beep.Tone(beepFile)
	if err != nil {
		return nil, err
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(sound.SampleRate),
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	aud := &Audio{
		tone: sound.U8(),
	}
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	return aud, nil
}

// Play starts or stops the tone.
func (aud *Audio) Play(on bool) error {
	if on == aud.playing {
		return nil
	}
	aud.playing = on

	sdl.ClearQueuedAudio(aud.id)
	if !on {
		sdl.PauseAudioDevice(aud.id, true)
		return nil
	}

	if err := aud.queue(); err != nil {
		return err
	}
	sdl.PauseAudioDevice(aud.id, false)
	return nil
}

// Refill queues another copy of the tone before the queue runs dry, to
// keep it looping while the sound timer is active.
func (aud *Audio) Refill() error {
	if !aud.playing || sdl.GetQueuedAudioSize(aud.id) >= uint32(len(aud.tone)) {
		return nil
	}
	return aud.queue()
}

func (aud *Audio) queue() error {
	if err := sdl.QueueAudio(aud.id, aud.tone); err != nil {
		return fmt.Errorf("queueing audio: %w", err)
	}
	return nil
}

// Close stops playback and closes the audio device.
func (aud *Audio) Close() {
	sdl.ClearQueuedAudio(aud.id)
	sdl.CloseAudioDevice(aud.id)
}
