// Package ffmpeg builds the fixed argument lists av3atool passes to the
// general media tool and its AV3A-capable build.
package ffmpeg

import (
	"strconv"
	"strings"
)

// Layout is a named speaker layout expressed as a channelmap filter.
type Layout struct {
	Name     string
	Channels []string
}

var (
	// Layout71 maps the first eight decoded channels to a 7.1 layout.
	Layout71 = Layout{
		Name:     "7.1",
		Channels: []string{"FL", "FR", "FC", "LFE", "SL", "SR", "BL", "BR"},
	}
	// Layout51 maps the first six decoded channels to a 5.1 layout.
	Layout51 = Layout{
		Name:     "5.1",
		Channels: []string{"FL", "FR", "FC", "LFE", "SL", "SR"},
	}
)

// Count returns the number of output channels.
func (l Layout) Count() int { return len(l.Channels) }

// ChannelMap renders the channelmap filter, e.g.
// "channelmap=0|1|2|3|4|5:FL+FR+FC+LFE+SL+SR".
func (l Layout) ChannelMap() string {
	indexes := make([]string, len(l.Channels))
	for i := range l.Channels {
		indexes[i] = strconv.Itoa(i)
	}
	return "channelmap=" + strings.Join(indexes, "|") + ":" + strings.Join(l.Channels, "+")
}

// Description is the human-readable mapping shown before a remap runs.
func (l Layout) Description() string {
	return "Mapping to " + strings.Join(l.Channels, "+") + " (" + strconv.Itoa(l.Count()) + " channels)"
}

// CommonArgs are shared by every invocation: overwrite, no stdin, errors
// only, keep the stats line, and allow experimental codecs.
func CommonArgs() []string {
	return []string{"-y", "-nostdin", "-loglevel", "error", "-stats", "-strict", "-2"}
}

// ExtractArgs copies the audio stream of input into output without video.
func ExtractArgs(input, output string) []string {
	args := CommonArgs()
	return append(args, "-i", input, "-vn", "-c", "copy", output)
}

// RemapArgs applies layout's channelmap to input and writes output.
func RemapArgs(input, output string, layout Layout) []string {
	args := CommonArgs()
	return append(args, "-i", input, "-filter", layout.ChannelMap(), output)
}
