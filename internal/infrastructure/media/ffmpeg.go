package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sentimeter-team/sentimeter/internal/domain/entities"
)

// FFmpegDecoder probes audio containers and cuts windows by shelling out to
// ffprobe/ffmpeg, which handle every container format the upload surface
// accepts.
type FFmpegDecoder struct {
	ffprobeBin string
	ffmpegBin  string
	tmpDir     string
}

// NewFFmpegDecoder creates a decoder using the ffmpeg/ffprobe binaries on
// PATH. tmpDir defaults to the system temp directory.
func NewFFmpegDecoder(tmpDir string) *FFmpegDecoder {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &FFmpegDecoder{
		ffprobeBin: "ffprobe",
		ffmpegBin:  "ffmpeg",
		tmpDir:     tmpDir,
	}
}

// Probe reads container metadata. A file ffprobe cannot parse is reported as
// an undecodable container.
func (d *FFmpegDecoder) Probe(ctx context.Context, path string) (entities.AudioInfo, error) {
	cmd := exec.CommandContext(ctx, d.ffprobeBin,
		"-v", "error",
		"-show_format", "-show_streams",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return entities.AudioInfo{}, fmt.Errorf("%w: ffprobe: %v", entities.ErrUndecodableAudio, err)
	}

	var ff struct {
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			CodecType  string `json:"codec_type"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &ff); err != nil {
		return entities.AudioInfo{}, fmt.Errorf("%w: ffprobe output: %v", entities.ErrUndecodableAudio, err)
	}

	duration, err := strconv.ParseFloat(ff.Format.Duration, 64)
	if err != nil {
		return entities.AudioInfo{}, fmt.Errorf("%w: missing duration", entities.ErrUndecodableAudio)
	}

	info := entities.AudioInfo{
		Duration: duration,
		Format:   firstFormatName(ff.Format.FormatName),
	}
	for _, s := range ff.Streams {
		if s.CodecType == "audio" {
			info.SampleRate, _ = strconv.Atoi(s.SampleRate)
			info.Channels = s.Channels
			break
		}
	}
	if info.Channels == 0 {
		return entities.AudioInfo{}, fmt.Errorf("%w: no audio stream", entities.ErrUndecodableAudio)
	}

	return info, nil
}

// CutWindow extracts [start, end) as mono 16kHz WAV, the format the
// transcription backend expects. Returns the path of the cut file; the
// caller removes it when done.
func (d *FFmpegDecoder) CutWindow(ctx context.Context, path string, start, end float64) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(d.tmpDir, fmt.Sprintf("%s_%d_%d.wav", base, int(start*1000), int(end*1000)))

	// ffmpeg -y -ss start -t dur -i input -ac 1 -ar 16000 -f wav output
	cmd := exec.CommandContext(ctx, d.ffmpegBin,
		"-y",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(end-start),
		"-i", path,
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		out,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg cut [%v,%v): %w", start, end, err)
	}
	return out, nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// firstFormatName trims ffprobe's comma list ("mov,mp4,m4a,...") to the
// leading name.
func firstFormatName(name string) string {
	if i := strings.IndexByte(name, ','); i >= 0 {
		return name[:i]
	}
	return name
}
