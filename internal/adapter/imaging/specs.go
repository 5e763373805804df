package imaging

import (
	"fmt"
	"strings"

	"snaps/internal/domain"
)

// SpecTable maps platform names to image transform descriptors. Lookup is
// case-insensitive so request platform strings match config keys.
type SpecTable struct {
	specs map[string]domain.ImageSpec
}

// DefaultSpecs are the per-platform transforms the converter ships with.
func DefaultSpecs() map[string]domain.ImageSpec {
	return map[string]domain.ImageSpec{
		"facebook":  {MaxWidth: 2048, MaxHeight: 2048, Format: "png"},
		"linkedin":  {MaxWidth: 1200, MaxHeight: 627, Format: "png"},
		"twitter":   {MaxWidth: 1600, MaxHeight: 900, Format: "png"},
		"instagram": {MaxWidth: 1080, MaxHeight: 1080, Format: "jpeg"},
	}
}

func NewSpecTable(specs map[string]domain.ImageSpec) *SpecTable {
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}
	normalized := make(map[string]domain.ImageSpec, len(specs))
	for name, spec := range specs {
		normalized[strings.ToLower(name)] = spec
	}
	return &SpecTable{specs: normalized}
}

// Lookup returns the transform descriptor for a platform.
func (t *SpecTable) Lookup(platform string) (domain.ImageSpec, bool) {
	spec, ok := t.specs[strings.ToLower(platform)]
	return spec, ok
}

// PassThroughProcessor satisfies the image-processing collaborator interface
// without touching pixels. Actual resizing and format conversion run outside
// the core; this keeps the orchestrator's side-channel wired when no external
// processor is configured.
type PassThroughProcessor struct {
	table *SpecTable
}

func NewPassThroughProcessor(table *SpecTable) *PassThroughProcessor {
	return &PassThroughProcessor{table: table}
}

func (p *PassThroughProcessor) Process(data []byte, targetPlatform string) ([]byte, error) {
	if _, ok := p.table.Lookup(targetPlatform); !ok {
		return nil, fmt.Errorf("no image spec for platform %q", targetPlatform)
	}
	return data, nil
}
