package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		file      File
		want      FileKind
		wantIsPDF bool
	}{
		{"audio by type", File{Name: "a.bin", MediaType: "audio/mpeg"}, KindAudio, false},
		{"audio with params", File{Name: "rec", MediaType: "Audio/WebM; codecs=opus"}, KindAudio, false},
		{"video by type", File{Name: "clip", MediaType: "video/mp4"}, KindVideo, false},
		{"text by type", File{Name: "notes", MediaType: "text/plain"}, KindText, false},
		{"pdf by type", File{Name: "doc", MediaType: "application/pdf"}, KindText, true},
		{"pdf by suffix", File{Name: "Report.PDF"}, KindText, true},
		{"code by suffix", File{Name: "main.py", MediaType: "application/octet-stream"}, KindText, false},
		{"json by suffix", File{Name: "data.json", MediaType: "application/json"}, KindText, false},
		{"image", File{Name: "photo.png", MediaType: "image/png"}, KindUnsupported, false},
		{"no type no suffix", File{Name: "blob"}, KindUnsupported, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.file))
			require.Equal(t, tt.wantIsPDF, IsPDF(tt.file))
		})
	}
}

func TestFileKind_String(t *testing.T) {
	require.Equal(t, "audio", KindAudio.String())
	require.Equal(t, "unsupported", FileKind(42).String())
}
