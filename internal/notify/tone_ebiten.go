//go:build cgo

package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioTone plays the beep through Ebiten's audio context. The context is
// created lazily on the first beep since only one may exist per process.
type AudioTone struct {
	once sync.Once
	ctx  *audio.Context
}

func NewAudioTone() Tone {
	return &AudioTone{}
}

func (a *AudioTone) Beep() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notify: tone: %v", r)
		}
	}()
	a.once.Do(func() {
		a.ctx = audio.NewContext(toneSampleRate)
	})
	if a.ctx == nil {
		return fmt.Errorf("notify: tone: no audio context")
	}
	player := a.ctx.NewPlayerFromBytes(SynthBeep(toneSampleRate))
	player.Play()
	time.AfterFunc(ToneDuration+50*time.Millisecond, func() {
		_ = player.Close()
	})
	return nil
}
