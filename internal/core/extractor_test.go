package core

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gwi.com/windtone-assistant/internal/provider"
	"gwi.com/windtone-assistant/internal/provider/mocks"
)

func TestExtractor_KeepsInputOrder(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	stt := mocks.NewMockSpeechToTextProvider(ctrl)

	stt.EXPECT().Transcribe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r provider.TranscriptionRequest) (string, error) {
			// The first file finishes last.
			if r.FileName == "first.mp3" {
				time.Sleep(50 * time.Millisecond)
			}
			return "said " + r.FileName, nil
		}).Times(2)

	e := NewExtractor(stt, "ru", "whisper-1")
	blocks := e.ExtractAll(context.Background(), []File{
		BytesFile("first.mp3", "audio/mpeg", []byte("a")),
		BytesFile("notes.txt", "text/plain", []byte("plain text")),
		BytesFile("second.mp4", "video/mp4", []byte("v")),
	})

	req.Equal([]string{
		"[Transcript of file first.mp3]:\nsaid first.mp3",
		"[Contents of file notes.txt]:\nplain text",
		"[Transcript of file second.mp4]:\nsaid second.mp4",
	}, blocks)
}

func TestExtractor_TranscriptionRequest(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	stt := mocks.NewMockSpeechToTextProvider(ctrl)

	var got provider.TranscriptionRequest
	stt.EXPECT().Transcribe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r provider.TranscriptionRequest) (string, error) {
			got = r
			return "hi", nil
		})

	e := NewExtractor(stt, "ru", "whisper-1")
	e.Extract(context.Background(), BytesFile("voice.webm", "audio/webm;codecs=opus", []byte("payload")))

	req.Equal("voice.webm", got.FileName)
	req.Equal("audio/webm", got.MediaType)
	req.Equal([]byte("payload"), got.Data)
	req.Equal("ru", got.Language)
	req.Equal("whisper-1", got.Model)
}

func TestExtractor_Placeholders(t *testing.T) {
	ctrl := gomock.NewController(t)
	stt := mocks.NewMockSpeechToTextProvider(ctrl)
	stt.EXPECT().Transcribe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r provider.TranscriptionRequest) (string, error) {
			if r.FileName == "broken.mp3" {
				return "", &provider.Error{Provider: "openai", StatusCode: 500, Message: "boom"}
			}
			return "   ", nil
		}).AnyTimes()

	unreadable := File{
		Name:      "gone.txt",
		MediaType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("disk on fire")
		},
	}

	tests := []struct {
		name string
		file File
		want string
	}{
		{"transcription failure", BytesFile("broken.mp3", "audio/mpeg", []byte("x")), "[extraction failed for broken.mp3]"},
		{"empty transcript", BytesFile("silence.mp3", "audio/mpeg", []byte("x")), ""},
		{"unreadable text", unreadable, "[extraction failed for gone.txt]"},
		{"blank text", BytesFile("empty.txt", "text/plain", []byte(" \n")), ""},
		{"pdf", BytesFile("paper.pdf", "application/pdf", []byte("%PDF")), "[PDF file paper.pdf uploaded. Full PDF processing requires a dedicated library.]"},
		{"unsupported", BytesFile("photo.png", "image/png", []byte{0x89}), "[File photo.png cannot be processed. Only text, audio and video files are supported.]"},
	}
	e := NewExtractor(stt, "ru", "whisper-1")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, e.Extract(context.Background(), tt.file))
		})
	}
}

func TestExtractor_NoSpeechProvider(t *testing.T) {
	e := NewExtractor(nil, "ru", "whisper-1")
	block := e.Extract(context.Background(), BytesFile("a.mp3", "audio/mpeg", []byte("x")))
	require.Equal(t, "[extraction failed for a.mp3]", block)
}

func TestExtractor_RecoversFromPanics(t *testing.T) {
	e := NewExtractor(nil, "ru", "whisper-1")
	f := File{
		Name:      "weird.txt",
		MediaType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			panic("reader exploded")
		},
	}
	blocks := e.ExtractAll(context.Background(), []File{f, BytesFile("ok.txt", "text/plain", []byte("fine"))})
	require.Equal(t, []string{"[extraction failed for weird.txt]", "[Contents of file ok.txt]:\nfine"}, blocks)
}
