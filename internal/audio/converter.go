package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/adpablos/expense-tracker-backend/internal/common"
)

// Runner executes an external media tool and returns its combined output.
// Indirection exists so tests can run without ffmpeg installed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Converter validates uploaded audio and transcodes it to a canonical
// 16 kHz mono PCM WAV container.
type Converter struct {
	runner  Runner
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
}

func NewConverter(ffmpegPath, ffprobePath string, logger *slog.Logger) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{runner: execRunner{}, ffmpeg: ffmpegPath, ffprobe: ffprobePath, logger: logger}
}

// NewConverterWithRunner is NewConverter with an injected process runner.
func NewConverterWithRunner(runner Runner, ffmpegPath, ffprobePath string, logger *slog.Logger) *Converter {
	c := NewConverter(ffmpegPath, ffprobePath, logger)
	c.runner = runner
	return c
}

// VerifyAudio probes the file's container and stream metadata. A probe
// failure means the upload is corrupt or not audio at all; this is the only
// point where that is detected.
func (c *Converter) VerifyAudio(ctx context.Context, path string) error {
	out, err := c.runner.Run(ctx, c.ffprobe,
		"-v", "error",
		"-show_entries", "format=format_name",
		"-of", "json",
		path)
	if err != nil {
		c.logger.Warn("audio.verify_failed", "path", path, "error", err, "output", string(out))
		return common.NewAppError("INVALID_AUDIO", fmt.Sprintf("probe failed for %s", path), common.ErrInvalidAudioFile)
	}
	c.logger.Debug("audio.verified", "path", path)
	return nil
}

// ConvertToWav transcodes sourcePath to a single deterministic output path
// (sourcePath + ".wav"). Safe to call once per source path within a request;
// the fixed output name makes blind re-invocation unsafe.
func (c *Converter) ConvertToWav(ctx context.Context, sourcePath string) (string, error) {
	wavPath := sourcePath + ".wav"
	out, err := c.runner.Run(ctx, c.ffmpeg,
		"-y",
		"-i", sourcePath,
		"-ac", "1", // 1 channel
		"-ar", "16000", // 16 kHz
		"-acodec", "pcm_s16le", // 16-bit little-endian PCM
		wavPath)
	if err != nil {
		c.logger.Error("audio.convert_failed", "source", sourcePath, "error", err, "output", string(out))
		return "", common.NewAppError("CONVERSION_FAILED", fmt.Sprintf("transcode %s", sourcePath), common.ErrAudioConversionFailed)
	}
	c.logger.Debug("audio.converted", "source", sourcePath, "wav", wavPath)
	return wavPath, nil
}
