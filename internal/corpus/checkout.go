package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Checkout wraps a local DeFiHackLabs working copy. The checkout supplies
// contract fixtures and the foundry configuration; validation stages agent
// submissions into it and restores the tree afterwards.
type Checkout struct {
	Root string
}

// NewCheckout validates that the given path exists and looks like a foundry
// project.
func NewCheckout(root string) (*Checkout, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("corpus checkout %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus checkout %s: not a directory", root)
	}
	return &Checkout{Root: root}, nil
}

// StagedExploit tracks a submission written into the checkout so the
// original tree can be restored once validation finishes.
type StagedExploit struct {
	Path       string
	backupPath string
	hadBackup  bool
}

// Stage writes exploit source into the checkout at contractPath, backing up
// any fixture already present there.
func (c *Checkout) Stage(contractPath, exploitCode string) (*StagedExploit, error) {
	if strings.TrimSpace(exploitCode) == "" {
		return nil, fmt.Errorf("no exploit code provided")
	}

	target := filepath.Join(c.Root, filepath.FromSlash(contractPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("create exploit dir: %w", err)
	}

	staged := &StagedExploit{Path: target, backupPath: target + ".backup"}
	if _, err := os.Stat(target); err == nil {
		original, readErr := os.ReadFile(target)
		if readErr != nil {
			return nil, fmt.Errorf("backup original fixture: %w", readErr)
		}
		if writeErr := os.WriteFile(staged.backupPath, original, 0o644); writeErr != nil {
			return nil, fmt.Errorf("backup original fixture: %w", writeErr)
		}
		staged.hadBackup = true
	}

	if err := os.WriteFile(target, []byte(exploitCode), 0o644); err != nil {
		return nil, fmt.Errorf("write exploit: %w", err)
	}
	log.Info().Str("path", target).Msg("staged exploit into corpus checkout")
	return staged, nil
}

// Restore puts the checkout back the way Stage found it: the backed-up
// fixture is moved back, or the staged file is removed when there was none.
func (s *StagedExploit) Restore() error {
	if s.hadBackup {
		if err := os.Rename(s.backupPath, s.Path); err != nil {
			return fmt.Errorf("restore original fixture: %w", err)
		}
		return nil
	}
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged exploit: %w", err)
	}
	return nil
}

// ReadExploit returns the reference exploit stored at contractPath. Paths
// are tried with and without the conventional src/ prefix since reference
// links are not always consistent across the corpus.
func (c *Checkout) ReadExploit(contractPath string) (string, error) {
	candidates := []string{contractPath}
	if strings.HasPrefix(contractPath, "src/") {
		candidates = append(candidates, strings.TrimPrefix(contractPath, "src/"))
	} else {
		candidates = append(candidates, "src/"+contractPath)
	}

	for _, candidate := range candidates {
		full := filepath.Join(c.Root, filepath.FromSlash(candidate))
		data, err := os.ReadFile(full)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read exploit %s: %w", full, err)
		}
	}
	return "", fmt.Errorf("exploit %s not found in checkout %s", contractPath, c.Root)
}
