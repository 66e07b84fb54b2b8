// Package buildcfg is the scoped editor for a project's buildout.cfg. A
// Store loads the whole file into memory on open; mutations stay in memory
// until Close, which writes the file back exactly once when the store was
// opened ReadWrite. Read-only opens never write.
//
// Concurrent opens of the same path are not supported (no locking); the tool
// runs single-process and single-invocation, so callers serialize access.
package buildcfg

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/ini.v1"
)

// DefaultName is the configuration file name at the project root.
const DefaultName = "buildout.cfg"

// Mode selects the write-back behavior of a Store.
type Mode int

const (
	// ReadOnly stores discard all mutations on Close.
	ReadOnly Mode = iota
	// ReadWrite stores persist the in-memory state on Close.
	ReadWrite
)

// RecipeKey is the section key naming the provisioning mechanism a section
// requests.
const RecipeKey = "recipe"

// Store is an in-memory copy of one buildout.cfg. Values are always strings;
// callers coerce.
type Store struct {
	path   string
	mode   Mode
	file   *ini.File
	closed bool
}

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		// buildout.cfg files carry ${section:key} references and
		// Python-style indented multi-line values; both must survive a
		// load/store cycle verbatim.
		IgnoreInlineComment:        true,
		AllowPythonMultilineValues: true,
	}
}

// Open loads the store at path. A missing file yields an empty store, not an
// error.
func Open(path string, mode Mode) (*Store, error) {
	f, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, mode: mode, file: f}, nil
}

func loadFile(path string) (*ini.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ini.Empty(loadOptions()), nil
	}
	f, err := ini.LoadSources(loadOptions(), path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return f, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value of key in section and whether it is present.
func (s *Store) Get(section, key string) (string, bool) {
	if !s.Has(section, key) {
		return "", false
	}
	return s.file.Section(section).Key(key).String(), true
}

// Set stores value under key in section, creating both as needed.
func (s *Store) Set(section, key, value string) {
	s.file.Section(section).Key(key).SetValue(value)
}

// Has reports whether key exists in section.
func (s *Store) Has(section, key string) bool {
	if !s.file.HasSection(section) {
		return false
	}
	return s.file.Section(section).HasKey(key)
}

// Delete removes key from section if present.
func (s *Store) Delete(section, key string) {
	if !s.file.HasSection(section) {
		return
	}
	s.file.Section(section).DeleteKey(key)
}

// Sections returns the section names in file order, excluding the implicit
// default section.
func (s *Store) Sections() []string {
	names := s.file.SectionStrings()
	sections := make([]string, 0, len(names))
	for _, name := range names {
		if name == ini.DefaultSection {
			continue
		}
		sections = append(sections, name)
	}
	return sections
}

// SectionsWithRecipe returns, in file order, the sections whose recipe key
// equals recipe.
func (s *Store) SectionsWithRecipe(recipe string) []string {
	var sections []string
	for _, name := range s.Sections() {
		value, ok := s.Get(name, RecipeKey)
		if ok && value == recipe {
			sections = append(sections, name)
		}
	}
	return sections
}

// Close persists the store when opened ReadWrite. It is idempotent; only the
// first call writes.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.mode != ReadWrite {
		return nil
	}
	return s.writeBack()
}

// writeBack serializes atomically: temp file in the same directory, then
// rename over the target.
func (s *Store) writeBack() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".buildout.cfg.*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(s.serialize()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("serializing %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// serialize renders the file in the dialect zc.buildout reads. go-ini's own
// writer emits values containing newlines in a triple-quoted form Python's
// ConfigParser rejects, so multi-line values are written as tab-indented
// continuation lines instead.
func (s *Store) serialize() []byte {
	var buf bytes.Buffer
	first := true
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		if !first {
			buf.WriteByte('\n')
		}
		first = false

		writeComment(&buf, sec.Comment)
		if sec.Name() != ini.DefaultSection {
			fmt.Fprintf(&buf, "[%s]\n", sec.Name())
		}
		for _, key := range sec.Keys() {
			writeComment(&buf, key.Comment)
			writeKeyValue(&buf, key.Name(), key.Value())
		}
	}
	return buf.Bytes()
}

// writeKeyValue emits one key. The first line goes after "key = " (bare
// "key =" when empty); every further line becomes a tab-indented
// continuation, which is how ConfigParser marks value continuations.
func writeKeyValue(buf *bytes.Buffer, name, value string) {
	lines := strings.Split(value, "\n")
	if head := strings.TrimSpace(lines[0]); head != "" {
		fmt.Fprintf(buf, "%s = %s\n", name, head)
	} else {
		fmt.Fprintf(buf, "%s =\n", name)
	}
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			fmt.Fprintf(buf, "\t%s\n", trimmed)
		}
	}
}

func writeComment(buf *bytes.Buffer, comment string) {
	if comment == "" {
		return
	}
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") && !strings.HasPrefix(line, ";") {
			line = "# " + line
		}
		buf.WriteString(line + "\n")
	}
}

// With opens the store at path, runs fn, and guarantees Close runs afterward
// regardless of fn's outcome. In ReadWrite mode the write-back happens even
// when fn fails; fn's error takes precedence and a failed write-back after a
// failed fn is only logged.
func With(path string, mode Mode, fn func(*Store) error) error {
	store, err := Open(path, mode)
	if err != nil {
		return err
	}

	fnErr := fn(store)
	closeErr := store.Close()

	if fnErr != nil {
		if closeErr != nil {
			log.Warn("write-back failed after error", "path", path, "err", closeErr)
		}
		return fnErr
	}
	return closeErr
}
