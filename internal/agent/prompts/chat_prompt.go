package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/leafdoc-core/server/internal/agent/model"
)

//go:embed template/chat_prompt.txt
var chatPrompt string

// RenderChatSystem renders the fixed instruction that binds a chat session to
// one crop and diagnosis.
func RenderChatSystem(ctx context.Context, crop model.Crop, diagnosis model.AnalysisResult, lang model.Language) (string, error) {
	if crop.ID == "" {
		return "", fmt.Errorf("crop is empty")
	}
	name := strings.TrimSpace(diagnosis.DiseaseName)
	if name == "" {
		name = "unknown"
	}
	info := lang.Info()
	return render(ctx, "chat_prompt", chatPrompt, map[string]any{
		"CropName":     crop.Name,
		"DiseaseName":  name,
		"Description":  diagnosis.Description,
		"LanguageName": info.Name,
		"NativeName":   info.NativeName,
	})
}
