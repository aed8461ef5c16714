package moderation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

var (
	ErrEmptyText      = errors.New("text is empty")
	ErrEmptyBlocklist = errors.New("no blocklist words have been found")
	ErrProfane        = errors.New("text contains inappropriate language")
	ErrZalgo          = errors.New("text contains distorted text")
	ErrNotSingleEmoji = errors.New("avatar must be a single emoji")
)

// Verdict результат классификации строки
type Verdict struct {
	Profane bool
	Zalgo   bool
}

// Moderator проверяет текст по блок-листу. После создания не изменяется,
// поэтому один экземпляр разделяется между запросами без блокировок.
type Moderator struct {
	blocklist    map[string]struct{}
	censoredChar rune
}

func NewModerator(words []string, censoredChar rune) (*Moderator, error) {
	blocklist := make(map[string]struct{}, len(words))
	for _, word := range words {
		if normalized := Normalize(word); normalized != "" {
			blocklist[normalized] = struct{}{}
		}
	}
	if len(blocklist) == 0 {
		return nil, ErrEmptyBlocklist
	}
	return &Moderator{blocklist: blocklist, censoredChar: censoredChar}, nil
}

// leet заменяет типичные подстановки leetspeak на буквы
var leet = map[rune]rune{
	'@': 'a', '4': 'a',
	'8': 'b',
	'(': 'c',
	'3': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
	'7': 't',
}

// Normalize приводит токен к виду для сравнения с блок-листом:
// нижний регистр, замена leetspeak, удаление всего кроме a-z.
func Normalize(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range strings.ToLower(token) {
		if sub, ok := leet[r]; ok {
			r = sub
		}
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Moderator) isBlocked(token string) bool {
	_, ok := m.blocklist[Normalize(token)]
	return ok
}

// IsProfane true, если хотя бы один токен из блок-листа
func (m *Moderator) IsProfane(text string) bool {
	return lo.SomeBy(strings.Fields(text), m.isBlocked)
}

// Sanitize заменяет запрещенные токены звездочками по длине исходного токена.
// Токены склеиваются одним пробелом.
func (m *Moderator) Sanitize(text string) string {
	tokens := lo.Map(strings.Fields(text), func(token string, _ int) string {
		if !m.isBlocked(token) {
			return token
		}
		return strings.Repeat(string(m.censoredChar), utf8.RuneCountInString(token))
	})
	return strings.Join(tokens, " ")
}

func (m *Moderator) Classify(text string) Verdict {
	return Verdict{Profane: m.IsProfane(text), Zalgo: IsZalgo(text)}
}

// CheckUsername отклоняет имя с матом или zalgo
func (m *Moderator) CheckUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyText
	}
	verdict := m.Classify(username)
	switch {
	case verdict.Profane:
		return ErrProfane
	case verdict.Zalgo:
		return ErrZalgo
	}
	return nil
}

// ModerateMessage возвращает текст сообщения, готовый к сохранению.
// Zalgo отклоняется, мат цензурируется.
func (m *Moderator) ModerateMessage(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	verdict := m.Classify(text)
	if verdict.Zalgo {
		return "", ErrZalgo
	}
	if verdict.Profane {
		return m.Sanitize(text), nil
	}
	return text, nil
}
