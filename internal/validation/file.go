package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for media uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var (
	// VoiceConstraints covers voice confession recordings.
	VoiceConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"audio/mpeg":  true,
			"audio/wave":  true,
			"audio/webm":  true,
			"video/webm":  true, // browsers record opus voice into webm containers
			"application/ogg": true,
		},
		AllowedExtensions: map[string]bool{
			".mp3":  true,
			".wav":  true,
			".webm": true,
			".ogg":  true,
			".m4a":  true,
		},
		MaxSize: 20 << 20, // 20MB
	}

	// VideoConstraints covers video confession recordings.
	VideoConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"video/mp4":       true,
			"video/webm":      true,
			"video/quicktime": true,
		},
		AllowedExtensions: map[string]bool{
			".mp4":  true,
			".webm": true,
			".mov":  true,
		},
		MaxSize: 100 << 20, // 100MB
	}
)

// ValidateFile validates a media upload against one or more constraint sets.
// With multiple sets the file must match at least one.
func ValidateFile(header *multipart.FileHeader, constraints ...FileConstraints) error {
	if len(constraints) == 0 {
		return fmt.Errorf("no file constraints provided")
	}

	var lastErr error
	for _, constraint := range constraints {
		err := validateAgainstConstraint(header, constraint)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func validateAgainstConstraint(header *multipart.FileHeader, constraints FileConstraints) error {
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Sniff the real content type from the first 512 bytes; the declared
	// Content-Type header is attacker-controlled.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	seeker, ok := file.(io.Seeker)
	if ok {
		_, err = seeker.Seek(0, 0)
		if err != nil {
			return fmt.Errorf("failed to reset file pointer: %w", err)
		}
	}

	detectedType := http.DetectContentType(buffer[:n])
	// DetectContentType appends codec parameters for some containers.
	detectedType, _, _ = strings.Cut(detectedType, ";")

	if !constraints.AllowedMimeTypes[strings.TrimSpace(detectedType)] {
		return fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}
