package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/knolpack/internal/domain"
	"github.com/conorfennell/knolpack/internal/gitsource"
	"github.com/conorfennell/knolpack/internal/parser"
)

// Collect returns the cards found at path, in a stable order. path may be
// a markdown file, a directory walked for *.md files, or a git URL that is
// cloned or pulled under reposDir first.
func Collect(ctx context.Context, path, reposDir string) ([]domain.Card, error) {
	if gitsource.IsGitURL(path) {
		localPath, err := gitsource.LocalPath(reposDir, path)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(localPath), os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Sync(ctx, path, localPath); err != nil {
			return nil, err
		}
		path = localPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source %s: %w", path, err)
	}
	if !info.IsDir() {
		cards, err := parser.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		slog.Info("source collected", "path", path, "cards", len(cards))
		return cards, nil
	}

	return collectDir(path)
}

// collectDir walks root in lexical order and parses every markdown file.
// Unreadable files are logged and skipped; the walk itself failing is an error.
func collectDir(root string) ([]domain.Card, error) {
	var cards []domain.Card
	var parseErrors int

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		fileCards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			parseErrors++
			slog.Warn("Failed to parse file", "path", path, "error", parseErr)
			return nil
		}
		cards = append(cards, fileCards...)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, walkErr)
	}

	slog.Info("source collected",
		"path", root,
		"cards", len(cards),
		"errors", parseErrors,
	)
	return cards, nil
}
