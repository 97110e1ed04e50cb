package permission

import (
	"context"
	"fmt"
	"strings"
)

// Режимы запроса согласия.
const (
	ModeAsk   = "ask"
	ModeGrant = "grant"
	ModeDeny  = "deny"
)

// StaticPrompter отвечает заранее заданным решением.
type StaticPrompter bool

func (p StaticPrompter) Ask(ctx context.Context, question string) (bool, error) {
	return bool(p), ctx.Err()
}

// NewPrompter выбирает, кто отвечает на запрос: интерактивный front end или фиксированное решение.
func NewPrompter(mode string, interactive Prompter) (Prompter, error) {
	switch strings.ToLower(mode) {
	case ModeAsk, "":
		if interactive == nil {
			return nil, fmt.Errorf("consent mode %q needs an interactive front end", mode)
		}
		return interactive, nil
	case ModeGrant:
		return StaticPrompter(true), nil
	case ModeDeny:
		return StaticPrompter(false), nil
	}
	return nil, fmt.Errorf("unknown consent mode %q", mode)
}
