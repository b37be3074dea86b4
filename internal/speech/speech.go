// Package speech narrates insight text to MP3 files and records the voice
// searches issued from the dashboard.
package speech

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bkds/internal/domain"
)

// ClientSynthesisPath is the URL prefix under which narrations are served.
const ClientSynthesisPath = "data/audio/speech/synthesis"

const (
	filePrefix  = "BKDS_TTS"
	maxTitleLen = 30
)

var (
	// ErrEmptyText is returned when there is nothing to narrate.
	ErrEmptyText = errors.New("speech: text is empty")
	// ErrEmptySearch is returned when a voice search carries no words.
	ErrEmptySearch = errors.New("speech: search string is empty")
	// ErrEmptySearchID is returned when a voice search is addressed without an ID.
	ErrEmptySearchID = errors.New("speech: voice search id is empty")
)

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// VoiceStore persists voice searches.
type VoiceStore interface {
	SaveVoiceSearch(ctx context.Context, vs domain.VoiceSearch) error
	ListVoiceSearches(ctx context.Context, limit int) ([]domain.VoiceSearch, error)
	DeleteVoiceSearch(ctx context.Context, id string) error
}

// Request describes a narration.
type Request struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Service narrates text and stores voice searches.
type Service struct {
	synth    Synthesizer
	store    VoiceStore
	audioDir string
	now      func() time.Time
	newID    func() string
	log      logrus.FieldLogger
}

// NewService creates a speech service writing narrations below audioDir.
// synth may be nil, in which case only previously narrated files are served.
func NewService(synth Synthesizer, store VoiceStore, audioDir string, logger logrus.FieldLogger) *Service {
	return &Service{
		synth:    synth,
		store:    store,
		audioDir: audioDir,
		now:      time.Now,
		newID:    newSearchID,
		log:      logger.WithField("component", "speech"),
	}
}

var (
	labelPrefix = regexp.MustCompile(`(?i)^(related to|category):?\s*`)
	nonWord     = regexp.MustCompile(`[^a-zA-Z0-9_]`)
)

// cleanName lowercases s, drops a leading "related to" or "category" label
// and removes everything that is not a letter, digit or underscore.
func cleanName(s string) string {
	s = strings.ToLower(s)
	s = labelPrefix.ReplaceAllString(s, "")
	return nonWord.ReplaceAllString(s, "")
}

// narrationPaths returns the directory and file name for a narration of req.
func narrationPaths(req Request) (dir, file string) {
	title := cleanName(req.Title)
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	base := filePrefix + "_" + title
	sum := md5.Sum([]byte(req.Text))
	file = fmt.Sprintf("%s_%s.mp3", base, hex.EncodeToString(sum[:]))
	return path.Join(cleanName(req.Category), base), file
}

// Narrate returns the client-relative path of an MP3 narration of req.Text.
// Identical text under the same title and category reuses the existing file.
func (s *Service) Narrate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", ErrEmptyText
	}

	relDir, file := narrationPaths(req)
	outDir := filepath.Join(s.audioDir, "synthesis", filepath.FromSlash(relDir))
	outPath := filepath.Join(outDir, file)
	clientPath := path.Join(ClientSynthesisPath, relDir, file)
	log := s.log.WithField("file", outPath)

	if _, err := os.Stat(outPath); err == nil {
		log.Info("Audio file already exists")
		return clientPath, nil
	}
	if s.synth == nil {
		return "", errors.New("speech: no synthesizer configured")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating narration dir: %w", err)
	}

	log.WithFields(logrus.Fields{"title": req.Title, "category": req.Category}).Info("Synthesizing speech")
	audio, err := s.synth.Synthesize(ctx, req.Text)
	if err != nil {
		log.WithError(err).Error("Speech synthesis failed")
		return "", fmt.Errorf("synthesizing speech: %w", err)
	}

	if err := writeFileAtomic(outDir, outPath, audio); err != nil {
		return "", err
	}
	log.Info("Audio file created")
	return clientPath, nil
}

// writeFileAtomic writes data to a temp file in dir and renames it over dst.
// Readers of dst never see a partially written file.
func writeFileAtomic(dir, dst string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".narration-*")
	if err != nil {
		return fmt.Errorf("creating temp audio file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing audio file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("moving audio file into place: %w", err)
	}
	return nil
}
