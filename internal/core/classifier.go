package core

import (
	"strings"
)

type FileKind int

const (
	KindUnsupported FileKind = iota
	KindAudio
	KindVideo
	KindText
)

func (k FileKind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindText:
		return "text"
	default:
		return "unsupported"
	}
}

var textSuffixes = []string{
	".txt", ".md", ".json", ".csv", ".log", ".xml", ".html", ".css",
	".js", ".ts", ".py", ".java", ".cpp", ".c", ".h", ".pdf",
}

// Classify looks only at the declared media type and the name suffix.
func Classify(f File) FileKind {
	mediaType := baseMediaType(f.MediaType)
	switch {
	case strings.HasPrefix(mediaType, "audio/"):
		return KindAudio
	case strings.HasPrefix(mediaType, "video/"):
		return KindVideo
	case strings.HasPrefix(mediaType, "text/"), mediaType == "application/pdf":
		return KindText
	}
	name := strings.ToLower(f.Name)
	for _, suffix := range textSuffixes {
		if strings.HasSuffix(name, suffix) {
			return KindText
		}
	}
	return KindUnsupported
}

// IsPDF marks text-kind files that only get a placeholder.
func IsPDF(f File) bool {
	return baseMediaType(f.MediaType) == "application/pdf" || strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
}

func baseMediaType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
