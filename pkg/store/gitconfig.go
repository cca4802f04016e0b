package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Repo describes the git checkout enclosing a tracked root.
type Repo struct {
	Dir    string `json:"dir"`
	Branch string `json:"branch,omitempty"`
	Origin string `json:"origin,omitempty"`
	User   string `json:"user,omitempty"`
}

// FindRepo walks up from root to the nearest .git directory and reads its
// config. ok is false when root is not inside a checkout.
func FindRepo(root string) (repo Repo, ok bool, err error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return Repo{}, false, err
	}
	for {
		gitDir := filepath.Join(dir, ".git")
		if fi, statErr := os.Stat(gitDir); statErr == nil && fi.IsDir() {
			repo, err = readRepo(dir, gitDir)
			return repo, err == nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Repo{}, false, nil
		}
		dir = parent
	}
}

func readRepo(dir, gitDir string) (Repo, error) {
	repo := Repo{Dir: dir}

	// Loose tolerates a checkout without a config file.
	cfg, err := ini.LoadSources(ini.LoadOptions{Loose: true}, filepath.Join(gitDir, "config"))
	if err != nil {
		return Repo{}, fmt.Errorf("store: read git config: %w", err)
	}
	repo.Origin = cfg.Section(`remote "origin"`).Key("url").String()
	repo.User = cfg.Section("user").Key("name").String()

	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Repo{}, fmt.Errorf("store: read git HEAD: %w", err)
	}
	ref := strings.TrimSpace(string(head))
	if strings.HasPrefix(ref, "ref: ") {
		repo.Branch = strings.TrimPrefix(strings.TrimPrefix(ref, "ref: "), "refs/heads/")
	} else if len(ref) >= 7 {
		repo.Branch = ref[:7]
	}
	return repo, nil
}
