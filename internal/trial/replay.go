// replay.go
package trial

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReplayStep is one scripted frame, optionally repeated, in a replay file.
type ReplayStep struct {
	Touch  bool    `yaml:"touch"`
	TouchX float64 `yaml:"tx"`
	TouchY float64 `yaml:"ty"`
	GazeX  float64 `yaml:"gx"`
	GazeY  float64 `yaml:"gy"`
	Repeat int     `yaml:"repeat,omitempty"`
}

type replayScript struct {
	Frames []ReplayStep `yaml:"frames"`
}

// ReplaySource is a FrameSource fed from a scripted frame file, used for
// dry-running a session without the acquisition hardware attached. Once the
// script is exhausted the last frame repeats forever.
type ReplaySource struct {
	frames []Frame
	pos    int
}

// LoadReplaySource parses a replay YAML file into a frame source.
func LoadReplaySource(path string) (*ReplaySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay file: %w", err)
	}

	var script replayScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to unmarshal replay YAML: %w", err)
	}
	if len(script.Frames) == 0 {
		return nil, fmt.Errorf("replay file %s contains no frames", path)
	}

	src := &ReplaySource{}
	for _, step := range script.Frames {
		n := step.Repeat
		if n < 1 {
			n = 1
		}
		f := Frame{
			TouchActive: step.Touch,
			TouchX:      step.TouchX,
			TouchY:      step.TouchY,
			GazeX:       step.GazeX,
			GazeY:       step.GazeY,
		}
		for i := 0; i < n; i++ {
			src.frames = append(src.frames, f)
		}
	}
	return src, nil
}

func (s *ReplaySource) Frame() Frame {
	f := s.frames[s.pos]
	if s.pos < len(s.frames)-1 {
		s.pos++
	}
	return f
}
