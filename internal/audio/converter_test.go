package audio

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/adpablos/expense-tracker-backend/internal/common"
)

type recordedCall struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []recordedCall
	out   []byte
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, recordedCall{name: name, args: args})
	return f.out, f.err
}

func TestVerifyAudioProbesFormat(t *testing.T) {
	runner := &fakeRunner{out: []byte(`{"format":{"format_name":"ogg"}}`)}
	c := NewConverterWithRunner(runner, "ffmpeg", "ffprobe", nil)

	if err := c.VerifyAudio(context.Background(), "/tmp/memo.ogg"); err != nil {
		t.Fatalf("VerifyAudio returned error: %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("runner invoked %d times, want 1", len(runner.calls))
	}
	call := runner.calls[0]
	if call.name != "ffprobe" {
		t.Errorf("command = %s, want ffprobe", call.name)
	}
	want := []string{"-v", "error", "-show_entries", "format=format_name", "-of", "json", "/tmp/memo.ogg"}
	if !reflect.DeepEqual(call.args, want) {
		t.Errorf("args = %v, want %v", call.args, want)
	}
}

func TestVerifyAudioProbeFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	c := NewConverterWithRunner(runner, "", "", nil)

	err := c.VerifyAudio(context.Background(), "/tmp/not-audio.pdf")
	if !errors.Is(err, common.ErrInvalidAudioFile) {
		t.Fatalf("error = %v, want ErrInvalidAudioFile", err)
	}
}

func TestConvertToWavBuildsCommand(t *testing.T) {
	runner := &fakeRunner{}
	c := NewConverterWithRunner(runner, "/usr/local/bin/ffmpeg", "", nil)

	wavPath, err := c.ConvertToWav(context.Background(), "/tmp/abc.ogg")
	if err != nil {
		t.Fatalf("ConvertToWav returned error: %v", err)
	}
	if wavPath != "/tmp/abc.ogg.wav" {
		t.Errorf("wavPath = %s, want /tmp/abc.ogg.wav", wavPath)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("runner invoked %d times, want 1", len(runner.calls))
	}
	call := runner.calls[0]
	if call.name != "/usr/local/bin/ffmpeg" {
		t.Errorf("command = %s, want configured ffmpeg path", call.name)
	}
	want := []string{"-y", "-i", "/tmp/abc.ogg", "-ac", "1", "-ar", "16000", "-acodec", "pcm_s16le", "/tmp/abc.ogg.wav"}
	if !reflect.DeepEqual(call.args, want) {
		t.Errorf("args = %v, want %v", call.args, want)
	}
}

func TestConvertToWavRunnerFailure(t *testing.T) {
	runner := &fakeRunner{out: []byte("Invalid data found"), err: errors.New("exit status 1")}
	c := NewConverterWithRunner(runner, "", "", nil)

	_, err := c.ConvertToWav(context.Background(), "/tmp/abc.ogg")
	if !errors.Is(err, common.ErrAudioConversionFailed) {
		t.Fatalf("error = %v, want ErrAudioConversionFailed", err)
	}
}

func TestNewConverterDefaultsToolNames(t *testing.T) {
	runner := &fakeRunner{}
	c := NewConverterWithRunner(runner, "", "", nil)

	_ = c.VerifyAudio(context.Background(), "a")
	_, _ = c.ConvertToWav(context.Background(), "a")

	if runner.calls[0].name != "ffprobe" || runner.calls[1].name != "ffmpeg" {
		t.Errorf("default tool names = %s, %s", runner.calls[0].name, runner.calls[1].name)
	}
}
