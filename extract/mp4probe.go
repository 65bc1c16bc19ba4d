package extract

import (
	"fmt"
	"os"

	mp4 "github.com/yapingcat/gomedia/go-mp4"
)

// MediaInfo is the subset of MP4 metadata the extractor needs to validate
// seek targets before handing a recording to a frame source.
type MediaInfo struct {
	DurationMs int64  `json:"durationMs"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Codec      string `json:"codec"`
}

// ProbeMP4 reads track headers from an MP4 recording without decoding frames.
func ProbeMP4(path string) (*MediaInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening recording: %w", err)
	}
	defer f.Close()

	demuxer := mp4.CreateMp4Demuxer(f)
	tracks, err := demuxer.ReadHead()
	if err != nil {
		return nil, fmt.Errorf("error reading mp4 header: %w", err)
	}

	for _, track := range tracks {
		if track.Width == 0 || track.Height == 0 {
			continue
		}
		info := &MediaInfo{
			Width:  int(track.Width),
			Height: int(track.Height),
			Codec:  codecName(track.Cid),
		}
		if track.Timescale > 0 {
			info.DurationMs = int64(track.Duration) * 1000 / int64(track.Timescale)
		}
		return info, nil
	}
	return nil, fmt.Errorf("no video track in %s", path)
}

func codecName(cid mp4.MP4_CODEC_TYPE) string {
	switch cid {
	case mp4.MP4_CODEC_H264:
		return "h264"
	case mp4.MP4_CODEC_H265:
		return "h265"
	default:
		return fmt.Sprintf("codec-%d", cid)
	}
}
