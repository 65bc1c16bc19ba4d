package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowshot/flowshot/extract"
	"github.com/flowshot/flowshot/flowgraph"
	"github.com/flowshot/flowshot/tracking"
	"github.com/flowshot/flowshot/utils"
)

// ExtractFrameRequest asks for a single keyframe from a recording.
type ExtractFrameRequest struct {
	SourceDir   string `json:"sourceDir"`
	TimestampMs int64  `json:"timestampMs"`
	Label       string `json:"label,omitempty"`
	Format      string `json:"format,omitempty"`  // "png", "jpeg" or "webp"
	Quality     int    `json:"quality,omitempty"` // 1-100, lossy formats only
	MaxWidth    int    `json:"maxWidth,omitempty"`
	MaxHeight   int    `json:"maxHeight,omitempty"`
	AddToGraph  bool   `json:"addToGraph,omitempty"`
	OutputPath  string `json:"outputPath,omitempty"` // file path, "-" for base64 data
}

// ExtractFrameResponse describes the produced keyframe. Data is only set
// when the caller asked for base64 output.
type ExtractFrameResponse struct {
	ID          string `json:"id"`
	TimestampMs int64  `json:"timestampMs"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Data        string `json:"data,omitempty"`
	FilePath    string `json:"filePath,omitempty"`
}

func validateImageFormat(format string) (string, error) {
	if format == "" {
		return "png", nil
	}
	format = strings.ToLower(format)
	switch format {
	case "png", "jpeg", "webp":
		return format, nil
	}
	return "", fmt.Errorf("invalid format '%s'. Supported formats are 'png', 'jpeg' and 'webp'", format)
}

// ExtractFrameCommand extracts one frame at the given timestamp.
func ExtractFrameCommand(req ExtractFrameRequest) *CommandResponse {
	format, err := validateImageFormat(req.Format)
	if err != nil {
		return NewErrorResponse(err)
	}

	src, err := extract.OpenDir(req.SourceDir)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error opening recording: %w", err))
	}
	defer src.Close()

	extractor := extract.New(src, extract.Options{
		MaxWidth:  req.MaxWidth,
		MaxHeight: req.MaxHeight,
		Format:    format,
		Quality:   req.Quality,
	})

	keyframe, err := extractor.ExtractAt(context.Background(), extract.Request{
		TimestampMs: req.TimestampMs,
		Label:       req.Label,
		Source:      flowgraph.SourceManual,
	})
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error extracting frame: %w", err))
	}

	if req.AddToGraph {
		a := GetApp()
		err := a.Editor.Apply(func(g *flowgraph.Graph) error {
			return g.AddKeyframe(*keyframe)
		})
		if err != nil {
			return NewErrorResponse(fmt.Errorf("error adding keyframe to graph: %w", err))
		}
	}

	response := ExtractFrameResponse{
		ID:          keyframe.ID,
		TimestampMs: keyframe.TimestampMs,
		Width:       keyframe.ImageWidth,
		Height:      keyframe.ImageHeight,
		Format:      format,
	}

	switch req.OutputPath {
	case "":
	case "-":
		response.Data = base64.StdEncoding.EncodeToString(keyframe.ImageData)
	default:
		finalPath, err := filepath.Abs(req.OutputPath)
		if err != nil {
			return NewErrorResponse(fmt.Errorf("invalid output path: %w", err))
		}
		if err := os.WriteFile(finalPath, keyframe.ImageData, 0o600); err != nil {
			return NewErrorResponse(fmt.Errorf("error writing file: %w", err))
		}
		response.FilePath = finalPath
	}

	return NewSuccessResponse(response)
}

// ExtractClicksRequest asks for one keyframe per recorded click. Clicks come
// from TrackFile when set, otherwise from the last stopped session.
type ExtractClicksRequest struct {
	SourceDir  string `json:"sourceDir"`
	TrackFile  string `json:"trackFile,omitempty"`
	Format     string `json:"format,omitempty"`
	Quality    int    `json:"quality,omitempty"`
	MaxWidth   int    `json:"maxWidth,omitempty"`
	MaxHeight  int    `json:"maxHeight,omitempty"`
	AutoLayout bool   `json:"autoLayout,omitempty"`
}

// ExtractClicksResponse summarizes a batch run.
type ExtractClicksResponse struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// ExtractClicksCommand extracts a keyframe for every click of a tracking
// session and adds the successful ones to the flow graph. Individual seek
// failures are reported but do not fail the batch.
func ExtractClicksCommand(req ExtractClicksRequest) *CommandResponse {
	a := GetApp()

	format, err := validateImageFormat(req.Format)
	if err != nil {
		return NewErrorResponse(err)
	}

	var trackData tracking.TrackData
	if req.TrackFile != "" {
		trackData, err = tracking.LoadTrackData(req.TrackFile)
		if err != nil {
			return NewErrorResponse(fmt.Errorf("error loading track data: %w", err))
		}
	} else {
		var ok bool
		trackData, ok = a.LastTrack()
		if !ok {
			return NewErrorResponse(fmt.Errorf("no track data available; stop a tracking session or pass a track file"))
		}
	}

	src, err := extract.OpenDir(req.SourceDir)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error opening recording: %w", err))
	}
	defer src.Close()

	extractor := extract.New(src, extract.Options{
		MaxWidth:  req.MaxWidth,
		MaxHeight: req.MaxHeight,
		Format:    format,
		Quality:   req.Quality,
	})

	batch := extractor.ExtractFromClicks(context.Background(), trackData.Events, func(current, total int) {
		utils.Verbose("Extracting keyframes: %d/%d", current, total)
	})

	response := ExtractClicksResponse{
		Total:      batch.Total,
		Successful: batch.Successful,
		Failed:     batch.Failed,
	}
	for _, res := range batch.Results {
		if res.Err != nil {
			response.Errors = append(response.Errors, res.Err.Error())
		}
	}

	if batch.Successful > 0 {
		err := a.Editor.Apply(func(g *flowgraph.Graph) error {
			for _, res := range batch.Results {
				if !res.Success {
					continue
				}
				if err := g.AddKeyframe(*res.Keyframe); err != nil {
					return err
				}
			}
			if req.AutoLayout {
				flowgraph.AutoLayout(g)
			}
			return nil
		})
		if err != nil {
			return NewErrorResponse(fmt.Errorf("error adding keyframes to graph: %w", err))
		}
	}

	return NewSuccessResponse(response)
}

// ProbeRequest names an MP4 recording to inspect.
type ProbeRequest struct {
	Path string `json:"path"`
}

// ProbeCommand reads MP4 metadata without decoding frames, so callers can
// validate timestamps before extraction.
func ProbeCommand(req ProbeRequest) *CommandResponse {
	if req.Path == "" {
		return NewErrorResponse(fmt.Errorf("path is required"))
	}

	info, err := extract.ProbeMP4(req.Path)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error probing recording: %w", err))
	}
	return NewSuccessResponse(info)
}
