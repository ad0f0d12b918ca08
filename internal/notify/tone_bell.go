//go:build !cgo

package notify

import (
	"io"
	"os"
)

// BellTone rings the terminal bell when no audio backend is compiled in.
type BellTone struct {
	W io.Writer
}

func NewAudioTone() Tone {
	return BellTone{W: os.Stderr}
}

func (b BellTone) Beep() error {
	_, err := io.WriteString(b.W, "\a")
	return err
}
