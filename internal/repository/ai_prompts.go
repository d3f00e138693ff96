package repository

import (
	"fmt"
	"strings"

	"contentpilot/internal/dto"
)

func promptArticle(req dto.GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a complete, well-structured article about: %s\n", req.Topic)
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone of voice: %s\n", req.Tone)
	}
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Naturally incorporate these keywords: %s\n", strings.Join(req.Keywords, ", "))
	}
	b.WriteString("Use markdown headings. Do not include any preamble before the title.")
	return b.String()
}

func promptOutline(req dto.GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed article outline for: %s\n", req.Topic)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Cover these keywords: %s\n", strings.Join(req.Keywords, ", "))
	}
	b.WriteString("Return a nested markdown list of sections and the key points under each.")
	return b.String()
}

func promptImage(req dto.GenerateRequest) string {
	prompt := req.Topic
	if req.Tone != "" {
		prompt += ", " + req.Tone + " style"
	}
	return prompt
}
