package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"snaps/internal/domain"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

// Composer renders the conversion prompt. Composition is a pure function of
// its inputs: identical (context, request) pairs always produce identical
// prompt strings.
type Composer struct {
	tmpl *template.Template
}

// promptData is the template's view of one conversion. ImageIncluded is a
// human-readable "Yes"/"No" token, not a raw boolean, because the template is
// natural-language instructions.
type promptData struct {
	InputPost      string
	SourcePlatform string
	TargetPlatform string
	ImageIncluded  string
	Context        string
}

// NewComposer creates a composer with the built-in conversion template.
func NewComposer() (*Composer, error) {
	text, err := promptTemplates.ReadFile("templates/convert.txt")
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return NewComposerWithTemplate(string(text))
}

// NewComposerWithTemplate creates a composer from custom template text.
// The template may reference .InputPost, .SourcePlatform, .TargetPlatform,
// .ImageIncluded and .Context.
func NewComposerWithTemplate(text string) (*Composer, error) {
	tmpl, err := template.New("convert").Parse(text)
	if err != nil {
		return nil, &domain.ConfigError{Field: "generation.prompt_template", Err: err}
	}
	return &Composer{tmpl: tmpl}, nil
}

// Compose renders the prompt for one conversion from the retrieved context
// string and the request parameters.
func (c *Composer) Compose(context string, req domain.ConversionRequest) (string, error) {
	data := promptData{
		InputPost:      req.InputPost,
		SourcePlatform: req.SourcePlatform,
		TargetPlatform: req.TargetPlatform,
		ImageIncluded:  yesNo(req.ImageIncluded),
		Context:        context,
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
