package audio

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// SpeechService turns pet chat replies into MP3 files served back to
// the client for voice interactions.
type SpeechService struct {
	audioDir string
}

const speechRequestTimeout = 10 * time.Second

// NewSpeechService creates a new speech service
func NewSpeechService(audioDir string) *SpeechService {
	return &SpeechService{
		audioDir: audioDir,
	}
}

// Synthesize converts a reply to speech and saves it as MP3, returning
// the filename (not full path). Files are named by content hash so the
// same reply text is only synthesized once.
func (s *SpeechService) Synthesize(ctx context.Context, text string) (string, error) {
	sum := sha256.Sum256([]byte(text))
	filename := fmt.Sprintf("reply_%x.mp3", sum[:8])
	outputPath := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(outputPath); err == nil {
		return filename, nil
	}

	// Google Translate TTS is free and needs no API key
	if err := s.generateUsingGoogleTTS(ctx, text, outputPath); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	return filename, nil
}

func (s *SpeechService) generateUsingGoogleTTS(ctx context.Context, text, outputPath string) error {
	baseURL := "https://translate.google.com/translate_tts"

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := baseURL + "?" + params.Encode()

	ctx, cancel := context.WithTimeout(ctx, speechRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Google rejects requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	client := &http.Client{Timeout: speechRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return nil
}

// PurgeOlderThan deletes synthesized files older than the given age and
// returns how many were removed.
func (s *SpeechService) PurgeOlderThan(age time.Duration) (int, error) {
	files, err := os.ReadDir(s.audioDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read audio directory: %w", err)
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".mp3" {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.audioDir, file.Name())); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}
