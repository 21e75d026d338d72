package core

import (
	"errors"

	"gwi.com/windtone-assistant/internal/store"
)

var (
	ErrBusy           = store.ErrBusy
	ErrEmptyMessage   = errors.New("message text and files are both empty")
	ErrTurnNotFound   = errors.New("turn not found")
	ErrNotSpeakable   = errors.New("only non-empty assistant turns can be spoken")
	ErrNotAudio       = errors.New("file must be an audio or video file")
	ErrNoSpeechEngine = errors.New("speech provider is not available")
)
