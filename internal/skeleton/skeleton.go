// Package skeleton carries the template files laid into a newly initialized
// project. The files are embedded in the binary; Install writes them into
// the project directory by basename.
package skeleton

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed templates
var templateFS embed.FS

// installNames maps embedded names to the names written into the project.
// Dotfiles cannot be embedded directly, so .gitignore is stored as gitignore.
var installNames = map[string]string{
	"buildout.cfg": "buildout.cfg",
	"bootstrap.py": "bootstrap.py",
	"setup.in":     "setup.in",
	"gitignore":    ".gitignore",
}

// Files returns the install basenames in a stable order.
func Files() []string {
	return []string{"buildout.cfg", "bootstrap.py", "setup.in", ".gitignore"}
}

// Read returns the content of one template by its install name.
func Read(name string) ([]byte, error) {
	for embedded, installed := range installNames {
		if installed == name {
			return templateFS.ReadFile("templates/" + embedded)
		}
	}
	return nil, fmt.Errorf("unknown skeleton file: %s", name)
}

// Install writes every template into dir, overwriting existing files.
func Install(dir string) error {
	for embedded, installed := range installNames {
		content, err := templateFS.ReadFile("templates/" + embedded)
		if err != nil {
			return fmt.Errorf("reading embedded template %s: %w", embedded, err)
		}
		target := filepath.Join(dir, installed)
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
	}
	return nil
}
