package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi", ".smf":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// Check for MIDI file signature "MThd"
	if string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	return FormatUnknown
}

// OutputPath derives the default output name: song.mid -> song.phase.mid
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".mid"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".phase" + ext
}

// RenderFile renders a MIDI file through the engine into outputPath
func (r *Renderer) RenderFile(inputPath, outputPath string) (*Result, error) {
	if DetectFormat(outputPath) != FormatMIDI {
		return nil, fault.New(fmt.Sprintf("output %s is not a .mid file", outputPath), ftag.With(ftag.InvalidArgument))
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.Wrap(err, fmsg.With("failed to read input file"), ftag.With(ftag.NotFound))
		}
		return nil, fault.Wrap(err, fmsg.With("failed to read input file"))
	}

	if DetectFormat(inputPath) != FormatMIDI && DetectFormatFromContent(data) != FormatMIDI {
		return nil, fault.New(fmt.Sprintf("%s is not a MIDI file", inputPath), ftag.With(ftag.InvalidArgument))
	}

	result, err := r.Render(data)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("render failed"))
	}

	if err := os.WriteFile(outputPath, result.Data, 0644); err != nil {
		return nil, fault.Wrap(err, fmsg.With("failed to write output file"))
	}

	return result, nil
}
