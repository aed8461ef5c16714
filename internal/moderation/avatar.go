package moderation

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/forPelevin/gomoji"
)

// CheckAvatar аватар должен быть ровно одним видимым символом-эмодзи.
// Считаются графемные кластеры, а не руны: 👨‍👩‍👧 это один аватар.
func (m *Moderator) CheckAvatar(avatar string) error {
	if strings.TrimSpace(avatar) == "" {
		return ErrEmptyText
	}

	var clusters []string
	tokens := graphemes.FromString(avatar)
	for tokens.Next() {
		clusters = append(clusters, tokens.Value())
	}
	if len(clusters) != 1 || !gomoji.ContainsEmoji(clusters[0]) {
		return ErrNotSingleEmoji
	}

	verdict := m.Classify(avatar)
	switch {
	case verdict.Zalgo:
		return ErrZalgo
	case verdict.Profane:
		return ErrProfane
	}
	return nil
}
