package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/leafdoc-core/server/internal/agent/model"
	"github.com/leafdoc-core/server/internal/agent/observers"
)

//go:embed template/analysis_prompt.txt
var analysisPrompt string

// RenderAnalysisInstruction renders the instruction sent alongside the leaf photo.
func RenderAnalysisInstruction(ctx context.Context, crop model.Crop, lang model.Language, loc *model.Location) (string, error) {
	if crop.ID == "" {
		return "", fmt.Errorf("crop is empty")
	}
	info := lang.Info()
	vars := map[string]any{
		"CropName":     crop.Name,
		"LanguageName": info.Name,
		"NativeName":   info.NativeName,
		"HasLocation":  loc != nil,
	}
	if loc != nil {
		vars["Latitude"] = strconv.FormatFloat(loc.Latitude, 'f', 4, 64)
		vars["Longitude"] = strconv.FormatFloat(loc.Longitude, 'f', 4, 64)
	}
	return render(ctx, "analysis_prompt", analysisPrompt, vars)
}

// render formats a Go template through the Eino prompt component with the
// prompt observers attached.
func render(ctx context.Context, name, tpl string, vars map[string]any) (string, error) {
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      name,
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	}, observers.NewPromptCallbacks())
	t := prompt.FromMessages(schema.GoTemplate, schema.SystemMessage(tpl))
	msgs, err := t.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt render: empty result")
	}
	return msgs[0].Content, nil
}
