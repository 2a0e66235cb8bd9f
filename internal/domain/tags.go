package domain

import (
	"fmt"
	"strings"
)

const DefaultClansPerRow = 3

type Settings struct {
	ClansPerRow int `json:"clansPerRow"`
}

// SettingsPatch carries only the settings a caller wants to change.
type SettingsPatch struct {
	ClansPerRow *int `json:"clansPerRow,omitempty"`
}

func (s Settings) Merge(p SettingsPatch) Settings {
	if p.ClansPerRow != nil {
		s.ClansPerRow = *p.ClansPerRow
	}
	return s
}

type TagList struct {
	Tags     []string `json:"tags"`
	Settings Settings `json:"settings"`
}

func DefaultTagList() TagList {
	return TagList{
		Tags:     []string{},
		Settings: Settings{ClansPerRow: DefaultClansPerRow},
	}
}

// FormatTag returns the canonical "#"-prefixed, upper-case form of a clan,
// player or war tag.
func FormatTag(tag string) (string, error) {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" || tag == "#" {
		return "", fmt.Errorf("%w: tag is required", ErrInvalidInput)
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag, nil
}
