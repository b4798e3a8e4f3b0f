package gitsource

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestIsGitURL(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{path: "https://github.com/user/cards.git", expected: true},
		{path: "git@github.com:user/cards.git", expected: true},
		{path: "/srv/cards.git", expected: true},
		{path: "./notes", expected: false},
		{path: "deck.md", expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			if got := IsGitURL(tc.path); got != tc.expected {
				t.Errorf("IsGitURL(%q) = %v, want %v", tc.path, got, tc.expected)
			}
		})
	}
}

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{name: "https", url: "https://github.com/user/cards.git", expected: filepath.Join("repos", "github.com", "user", "cards")},
		{name: "scp-like", url: "git@gitlab.com:team/decks.git", expected: filepath.Join("repos", "gitlab.com", "team", "decks")},
		{name: "garbage", url: "not a url", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error for %q", tc.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("LocalPath() returned an unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSyncClonesLocalRepository(t *testing.T) {
	// Local clones go through the git-upload-pack binary.
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	origin := filepath.Join(t.TempDir(), "origin")
	repo, err := git.PlainInit(origin, false)
	if err != nil {
		t.Fatalf("PlainInit() returned an unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(origin, "deck.md"), []byte("Q: France\nA: Paris\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() returned an unexpected error: %v", err)
	}
	if _, err := wt.Add("deck.md"); err != nil {
		t.Fatalf("Add() returned an unexpected error: %v", err)
	}
	_, err = wt.Commit("add deck", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit() returned an unexpected error: %v", err)
	}

	checkout := filepath.Join(t.TempDir(), "checkout")
	if err := Sync(context.Background(), origin, checkout); err != nil {
		t.Fatalf("Sync() clone returned an unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(checkout, "deck.md")); err != nil {
		t.Errorf("Expected deck.md in checkout: %v", err)
	}

	// A second sync pulls, and an up-to-date checkout is not an error.
	if err := Sync(context.Background(), origin, checkout); err != nil {
		t.Errorf("Sync() pull returned an unexpected error: %v", err)
	}
}
