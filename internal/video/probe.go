package video

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	NbFrames     string `json:"nb_frames"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
	Tags         struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
	SideDataList []struct {
		SideDataType string  `json:"side_data_type"`
		Rotation     float64 `json:"rotation"`
	} `json:"side_data_list"`
}

// rotation returns the display rotation in degrees, normalised to
// [0, 360). Newer ffprobe builds report it in the display matrix side data,
// older ones in the rotate tag.
func (s probeStream) rotation() int {
	deg := 0
	for _, sd := range s.SideDataList {
		if sd.Rotation != 0 {
			deg = int(math.Round(sd.Rotation))
			break
		}
	}
	if deg == 0 {
		deg, _ = strconv.Atoi(strings.TrimSpace(s.Tags.Rotate))
	}
	return ((deg % 360) + 360) % 360
}

// parseProbe reads the JSON ffprobe emits for -show_format -show_streams.
func parseProbe(raw string) (Metadata, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Metadata{}, fmt.Errorf("decode probe output: %w", err)
	}

	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		fps := parseRate(s.AvgFrameRate)
		if fps <= 0 {
			fps = parseRate(s.RFrameRate)
		}
		if fps <= 0 {
			return Metadata{}, fmt.Errorf("video stream has no frame rate")
		}

		total, _ := strconv.Atoi(s.NbFrames)
		if total <= 0 {
			duration := parseSeconds(s.Duration)
			if duration <= 0 {
				duration = parseSeconds(out.Format.Duration)
			}
			total = int(math.Round(duration * fps))
		}

		// ffmpeg applies the rotation when decoding, so quarter turns swap
		// the dimensions of the frames it emits.
		rot := s.rotation()
		width, height := s.Width, s.Height
		if rot == 90 || rot == 270 {
			width, height = height, width
		}
		return Metadata{
			TotalFrames: total,
			FrameRate:   fps,
			Width:       width,
			Height:      height,
			Rotation:    rot,
		}, nil
	}
	return Metadata{}, ErrNoVideoStream
}

// parseRate accepts "30000/1001" or "25".
func parseRate(s string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
