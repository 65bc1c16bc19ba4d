package commands

import (
	"fmt"
	"strings"

	"github.com/flowshot/flowshot/export"
)

// ExportRequest controls flow package generation. Empty fields fall back to
// the configured export defaults.
type ExportRequest struct {
	OutputDir   string `json:"outputDir"`
	ProjectName string `json:"projectName,omitempty"`
	Format      string `json:"format,omitempty"`
	Zip         bool   `json:"zip,omitempty"`
}

// ExportCommand serializes the current flow graph into a package directory
// (flow.json plus assets), optionally zipped.
func ExportCommand(req ExportRequest) *CommandResponse {
	a := GetApp()

	if req.OutputDir == "" {
		return NewErrorResponse(fmt.Errorf("outputDir is required"))
	}
	if req.ProjectName == "" {
		req.ProjectName = a.Config.Export.ProjectName
	}
	if req.Format == "" {
		req.Format = a.Config.Export.Format
	}
	if _, err := validateImageFormat(req.Format); err != nil {
		return NewErrorResponse(err)
	}

	// project name becomes a directory name
	safeName := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, req.ProjectName)

	result, err := export.Package(a.Editor.Snapshot(), req.OutputDir, export.Options{
		ProjectName: safeName,
		Format:      strings.ToLower(req.Format),
		Zip:         req.Zip,
	})
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error exporting flow: %w", err))
	}

	return NewSuccessResponse(result)
}
