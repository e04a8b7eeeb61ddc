package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"av3atool/internal/ffmpeg"
	"av3atool/internal/job"
	"av3atool/internal/preflight"
)

// Stage names recorded in logs and history.
const (
	StageExtract  = "extract"
	StageDecode   = "decode"
	StageRemap8ch = "remap_8ch"
	StageRemap6ch = "remap_6ch"
)

// Stage is one external invocation within a flow.
type Stage struct {
	Name      string
	Tool      string
	Args      []string
	Output    string
	Monitored bool
	Intro     string
	Detail    string
	Done      string
}

// Label renders a stage name for tables and messages.
func Label(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return ""
	}
	return cases.Title(language.Und).String(name)
}

// failureMessage describes a non-zero exit the way users see it on the console.
func (s Stage) failureMessage(exitCode int, err error) string {
	switch s.Name {
	case StageExtract:
		if exitCode >= 0 {
			return fmt.Sprintf("Extraction failed: exit status %d", exitCode)
		}
		return fmt.Sprintf("Extraction failed: %v", err)
	case StageDecode:
		if exitCode >= 0 {
			return fmt.Sprintf("Decoder exited with code %d", exitCode)
		}
		return fmt.Sprintf("Decoder failed: %v", err)
	case StageRemap8ch:
		return "FFmpeg failed to create 8ch output."
	case StageRemap6ch:
		return "FFmpeg failed to create 6ch output."
	default:
		return fmt.Sprintf("%s failed: %v", Label(s.Name), err)
	}
}

// Plan returns the ordered stages for j.
func Plan(j *job.Job) []Stage {
	if j == nil {
		return nil
	}
	var stages []Stage
	if j.Flow == job.FlowExtract || j.Flow == job.FlowConvert {
		stages = append(stages, extractStage(j))
	}
	if j.Flow == job.FlowDecode || j.Flow == job.FlowConvert {
		stages = append(stages,
			decodeStage(j),
			remapStage(StageRemap8ch, j.WAVPath(), j.WAV8chPath(), ffmpeg.Layout71),
			remapStage(StageRemap6ch, j.WAVPath(), j.WAV6chPath(), ffmpeg.Layout51),
		)
	}
	return stages
}

func extractStage(j *job.Job) Stage {
	out := j.AV3APath()
	return Stage{
		Name:   StageExtract,
		Tool:   preflight.NameFFmpegAV3A,
		Args:   ffmpeg.ExtractArgs(j.Input, out),
		Output: out,
		Done:   "Audio extracted: " + out,
	}
}

func decodeStage(j *job.Job) Stage {
	out := j.WAVPath()
	return Stage{
		Name:      StageDecode,
		Tool:      preflight.NameDecoder,
		Args:      []string{j.DecodeInput(), out},
		Output:    out,
		Monitored: true,
		Intro:     "Decoding started...",
		Done:      "Decoding completed successfully.",
	}
}

func remapStage(name, in, out string, layout ffmpeg.Layout) Stage {
	return Stage{
		Name:   name,
		Tool:   preflight.NameFFmpeg,
		Args:   ffmpeg.RemapArgs(in, out, layout),
		Output: out,
		Intro:  fmt.Sprintf("Creating %s WAV from decoded output...", layout.Name),
		Detail: layout.Description(),
		Done:   "Output created: " + out,
	}
}
