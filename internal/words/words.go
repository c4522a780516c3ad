// Package words manages the word and phrase pools that typing targets are
// built from.
package words

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage reads and updates the JSON-backed word and phrase pools.
type Storage struct {
	wordsPath   string
	phrasesPath string
}

type wordsFile struct {
	Words []string `json:"words"`
}

type phrasesFile struct {
	Phrases []string `json:"phrases"`
}

// NewStorage wires the storage to its pool files.
func NewStorage(wordsPath, phrasesPath string) *Storage {
	return &Storage{wordsPath: wordsPath, phrasesPath: phrasesPath}
}

// Words returns the word pool. A missing file yields the built-in defaults.
func (s *Storage) Words() ([]string, error) {
	data, err := os.ReadFile(s.wordsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultWords(), nil
		}
		return nil, fmt.Errorf("failed to read word pool: %w", err)
	}
	var f wordsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse word pool: %w", err)
	}
	if len(f.Words) == 0 {
		return defaultWords(), nil
	}
	return f.Words, nil
}

// Phrases returns the phrase pool. A missing file yields the built-in
// defaults.
func (s *Storage) Phrases() ([]string, error) {
	data, err := os.ReadFile(s.phrasesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultPhrases(), nil
		}
		return nil, fmt.Errorf("failed to read phrase pool: %w", err)
	}
	var f phrasesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse phrase pool: %w", err)
	}
	if len(f.Phrases) == 0 {
		return defaultPhrases(), nil
	}
	return f.Phrases, nil
}

// AddWords appends new unique words to the pool and reports how many were
// actually added.
func (s *Storage) AddWords(newWords []string) (int, error) {
	current, err := s.Words()
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(current))
	for _, w := range current {
		seen[w] = struct{}{}
	}
	added := 0
	for _, w := range newWords {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		current = append(current, w)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := writeJSON(s.wordsPath, wordsFile{Words: current}); err != nil {
		return 0, err
	}
	return added, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create pool dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "pool-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp pool file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	enc := json.NewEncoder(tmpFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write pool: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close pool file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write pool: %w", err)
	}
	return nil
}
