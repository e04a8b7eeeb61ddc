// Package job models one av3atool run: the input file, the flow to apply,
// and the output files derived from the input's base name.
package job

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"av3atool/internal/services"
)

// Flow names a sequence of stages.
type Flow string

const (
	// FlowExtract copies the AV3A audio stream out of a video container.
	FlowExtract Flow = "extract"
	// FlowDecode decodes an AV3A bitstream to WAV and remaps it to 7.1 and 5.1.
	FlowDecode Flow = "decode"
	// FlowConvert runs extract followed by decode.
	FlowConvert Flow = "convert"
)

const (
	suffixAV3A = ".av3a"
	suffixWAV  = ".wav"
	suffix8ch  = "_8ch.wav"
	suffix6ch  = "_6ch.wav"
)

// Job is constructed from CLI arguments at start and discarded at exit.
type Job struct {
	ID    string
	Flow  Flow
	Input string
	Dir   string
	Base  string
}

// New derives the job's paths from input. Outputs are always placed
// alongside the input file, so an input whose name matches one of its own
// outputs is rejected. The file itself is checked later by CheckInput.
func New(flow Flow, input string) (*Job, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, services.Wrap(services.ErrValidation, "", "", "input file is required", nil)
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, services.Wrap(services.ErrUnhandled, "", "resolve input", input, err)
	}
	j := &Job{
		ID:    uuid.NewString(),
		Flow:  flow,
		Input: abs,
		Dir:   filepath.Dir(abs),
		Base:  BaseName(abs),
	}
	for _, out := range j.Outputs() {
		if out == j.Input {
			return nil, services.Wrap(services.ErrValidation, "", "",
				fmt.Sprintf("Output %s would overwrite the input file", out), nil)
		}
	}
	return j, nil
}

// CheckInput reports ErrMissingInput when the input is absent or a directory.
func (j *Job) CheckInput() error {
	info, err := os.Stat(j.Input)
	if err != nil {
		return services.Wrap(services.ErrMissingInput, "", "", "Input file not found: "+j.Input, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrMissingInput, "", "", "Input is a directory: "+j.Input, nil)
	}
	return nil
}

// BaseName strips the directory and final extension from path.
func BaseName(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

func (j *Job) derive(suffix string) string {
	return filepath.Join(j.Dir, j.Base+suffix)
}

// AV3APath is the extraction output.
func (j *Job) AV3APath() string { return j.derive(suffixAV3A) }

// WAVPath is the raw decoder output.
func (j *Job) WAVPath() string { return j.derive(suffixWAV) }

// WAV8chPath is the 7.1 remap output.
func (j *Job) WAV8chPath() string { return j.derive(suffix8ch) }

// WAV6chPath is the 5.1 remap output.
func (j *Job) WAV6chPath() string { return j.derive(suffix6ch) }

// DecodeInput is the bitstream the decoder reads: the input itself for the
// decode flow, the extraction output for convert.
func (j *Job) DecodeInput() string {
	if j.Flow == FlowConvert {
		return j.AV3APath()
	}
	return j.Input
}

// Outputs lists every file the job's flow produces, in stage order.
func (j *Job) Outputs() []string {
	switch j.Flow {
	case FlowExtract:
		return []string{j.AV3APath()}
	case FlowDecode:
		return []string{j.WAVPath(), j.WAV8chPath(), j.WAV6chPath()}
	case FlowConvert:
		return []string{j.AV3APath(), j.WAVPath(), j.WAV8chPath(), j.WAV6chPath()}
	default:
		return nil
	}
}
