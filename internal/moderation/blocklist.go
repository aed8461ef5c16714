package moderation

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed blocklist.txt
var defaultBlocklist string

// DefaultBlocklist встроенный список запрещенных слов
func DefaultBlocklist() []string {
	return parseBlocklist(defaultBlocklist)
}

// LoadBlocklist читает список из файла: одно слово на строку, # комментарий
func LoadBlocklist(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blocklist %s: %w", path, err)
	}
	words := parseBlocklist(string(data))
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyBlocklist)
	}
	return words, nil
}

func parseBlocklist(raw string) []string {
	var words []string
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}
