// Package transcribe converts audio files to text with a local whisper.cpp
// binary. One Engine is constructed per process and shared by all callers.
package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
)

var execCommandContext = exec.CommandContext

// ErrNotFound is returned when the audio asset does not exist.
var ErrNotFound = errors.New("audio file not found")

// Compute devices in preference order. detectDevice probes for an
// accelerated backend and Transcribe falls back to CPU once if an
// accelerated run fails to load the model.
const (
	deviceCUDA   = "cuda"
	deviceVulkan = "vulkan"
	deviceCPU    = "cpu"
)

func detectDevice() string {
	if _, err := os.Stat("/proc/driver/nvidia/version"); err == nil {
		return deviceCUDA
	}
	if _, err := exec.LookPath("vulkaninfo"); err == nil {
		return deviceVulkan
	}
	return deviceCPU
}

// Segment is one timestamped span of transcript text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Engine wraps a whisper.cpp model. Construction validates the model file
// once; inference runs are serialized with a mutex since a single model
// instance backs every call.
type Engine struct {
	bin    string
	model  string
	device string
	mu     sync.Mutex
}

func NewEngine(bin, model string) (*Engine, error) {
	if _, err := os.Stat(model); err != nil {
		return nil, fmt.Errorf("whisper model not found at %s: %w", model, err)
	}
	device := detectDevice()
	log.Printf("Transcription engine ready: %s with model %s on %s", bin, model, device)
	return &Engine{bin: bin, model: model, device: device}, nil
}

// Device reports the compute backend currently in use.
func (e *Engine) Device() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.device
}

// Transcribe converts the audio file at path to plain text.
func (e *Engine) Transcribe(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.run(ctx, path, "--no-timestamps")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// TranscribeWithTimestamps returns the transcript along with ordered segment
// timestamps. Not used by the episode pipeline.
func (e *Engine) TranscribeWithTimestamps(ctx context.Context, path string) (string, []Segment, error) {
	if _, err := os.Stat(path); err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.run(ctx, path, "--output-json", "--output-file", path); err != nil {
		return "", nil, err
	}
	jsonPath := path + ".json"
	defer os.Remove(jsonPath)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read transcription output: %w", err)
	}

	var payload struct {
		Transcription []struct {
			Offsets struct {
				From int64 `json:"from"`
				To   int64 `json:"to"`
			} `json:"offsets"`
			Text string `json:"text"`
		} `json:"transcription"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", nil, fmt.Errorf("failed to parse transcription output: %w", err)
	}

	var text strings.Builder
	segments := make([]Segment, 0, len(payload.Transcription))
	for _, seg := range payload.Transcription {
		segments = append(segments, Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  strings.TrimSpace(seg.Text),
		})
		text.WriteString(seg.Text)
	}
	return strings.TrimSpace(text.String()), segments, nil
}

// run invokes the whisper binary on the current device. If an accelerated
// device fails, it retries once on CPU and sticks with CPU afterwards.
func (e *Engine) run(ctx context.Context, path string, extra ...string) ([]byte, error) {
	out, err := e.runOn(ctx, e.device, path, extra...)
	if err != nil && e.device != deviceCPU {
		log.Printf("Transcription failed on %s (%v), falling back to CPU", e.device, err)
		out, err = e.runOn(ctx, deviceCPU, path, extra...)
		if err == nil {
			e.device = deviceCPU
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) runOn(ctx context.Context, device, path string, extra ...string) ([]byte, error) {
	args := []string{"--model", e.model, "--file", path}
	if device == deviceCPU {
		args = append(args, "--no-gpu")
	}
	args = append(args, extra...)

	cmd := execCommandContext(ctx, e.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("whisper failed: %v: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("whisper failed: %w", err)
	}
	return out, nil
}
