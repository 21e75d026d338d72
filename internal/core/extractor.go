package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gwi.com/windtone-assistant/internal/provider"
)

const (
	transcriptBlock  = "[Transcript of file %s]:\n%s"
	contentBlock     = "[Contents of file %s]:\n%s"
	failedBlock      = "[extraction failed for %s]"
	pdfBlock         = "[PDF file %s uploaded. Full PDF processing requires a dedicated library.]"
	unsupportedBlock = "[File %s cannot be processed. Only text, audio and video files are supported.]"
)

// Extractor turns attachments into labelled text blocks. It never fails:
// a file that cannot be read or transcribed yields a placeholder block.
type Extractor struct {
	stt      provider.SpeechToTextProvider
	language string
	model    string
}

func NewExtractor(stt provider.SpeechToTextProvider, language, model string) *Extractor {
	return &Extractor{stt: stt, language: language, model: model}
}

// ExtractAll extracts every file concurrently and returns the non-empty
// blocks in the order the files were given.
func (e *Extractor) ExtractAll(ctx context.Context, files []File) []string {
	blocks := make([]string, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			blocks[i] = e.Extract(ctx, f)
		}(i, f)
	}
	wg.Wait()
	return lo.Compact(blocks)
}

// Extract returns the block for one file, or "" when it contributes nothing.
func (e *Extractor) Extract(ctx context.Context, f File) (block string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Extractor: panic while processing %s: %v", f.Name, r)
			block = fmt.Sprintf(failedBlock, f.Name)
		}
	}()

	kind := Classify(f)
	log.Printf("Extractor: %s (type %q, %d bytes) classified as %s", f.Name, f.MediaType, f.Size, kind)

	switch kind {
	case KindAudio, KindVideo:
		return e.transcribe(ctx, f)
	case KindText:
		if IsPDF(f) {
			return fmt.Sprintf(pdfBlock, f.Name)
		}
		return e.readText(f)
	default:
		return fmt.Sprintf(unsupportedBlock, f.Name)
	}
}

func (e *Extractor) transcribe(ctx context.Context, f File) string {
	if e.stt == nil {
		log.Printf("Extractor: no speech-to-text provider for %s", f.Name)
		return fmt.Sprintf(failedBlock, f.Name)
	}
	data, err := f.readAll()
	if err != nil {
		log.Printf("Extractor: failed to read %s: %v", f.Name, err)
		return fmt.Sprintf(failedBlock, f.Name)
	}
	transcript, err := e.stt.Transcribe(ctx, provider.TranscriptionRequest{
		FileName:  f.Name,
		MediaType: baseMediaType(f.MediaType),
		Data:      data,
		Language:  e.language,
		Model:     e.model,
	})
	if err != nil {
		log.Printf("Extractor: transcription of %s failed: %v", f.Name, err)
		return fmt.Sprintf(failedBlock, f.Name)
	}
	if strings.TrimSpace(transcript) == "" {
		return ""
	}
	return fmt.Sprintf(transcriptBlock, f.Name, transcript)
}

func (e *Extractor) readText(f File) string {
	data, err := f.readAll()
	if err != nil {
		log.Printf("Extractor: failed to read %s: %v", f.Name, err)
		return fmt.Sprintf(failedBlock, f.Name)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return fmt.Sprintf(contentBlock, f.Name, text)
}
