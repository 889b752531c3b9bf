// Package workspace locates the root journal of a directory tree.
package workspace

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/juev/ledger-textual/internal/include"
)

var (
	rootNames  = []string{"main.ledger", "main.journal", ".ledger"}
	extensions = map[string]bool{".ledger": true, ".journal": true, ".dat": true, ".j": true}
)

type Workspace struct {
	root         string
	includeGraph map[string][]string
	reverseGraph map[string][]string
}

func New(root string) *Workspace {
	return &Workspace{
		root:         root,
		includeGraph: make(map[string][]string),
		reverseGraph: make(map[string][]string),
	}
}

// FindRootJournal returns a conventionally named journal in the root
// directory, or else the first journal below it that no other journal
// includes. It returns "" when the tree holds no journals.
func (w *Workspace) FindRootJournal() (string, error) {
	for _, name := range rootNames {
		path := filepath.Join(w.root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return w.findRootByIncludeGraph()
}

// Includes returns the files path includes directly, as resolved paths.
func (w *Workspace) Includes(path string) []string {
	return w.includeGraph[path]
}

func (w *Workspace) findRootByIncludeGraph() (string, error) {
	journalFiles, err := w.findJournalFiles()
	if err != nil {
		return "", err
	}

	if len(journalFiles) == 0 {
		return "", nil
	}

	w.buildIncludeGraph(journalFiles)

	var rootCandidates []string
	for _, file := range journalFiles {
		if len(w.reverseGraph[file]) == 0 {
			rootCandidates = append(rootCandidates, file)
		}
	}

	if len(rootCandidates) == 0 {
		return journalFiles[0], nil
	}

	sort.Strings(rootCandidates)
	return rootCandidates[0], nil
}

func (w *Workspace) findJournalFiles() ([]string, error) {
	var files []string
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skip inaccessible files
		}
		if info.IsDir() {
			if path != w.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if extensions[filepath.Ext(path)] {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func (w *Workspace) buildIncludeGraph(files []string) {
	for _, file := range files {
		for _, inc := range scanIncludes(file) {
			incPath := filepath.Clean(include.ResolvePath(file, inc))
			w.includeGraph[file] = append(w.includeGraph[file], incPath)
			w.reverseGraph[incPath] = append(w.reverseGraph[incPath], file)
		}
	}
}

// scanIncludes lists the arguments of the file's !include lines without
// parsing the rest of it.
func scanIncludes(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var includes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rest, ok := strings.CutPrefix(scanner.Text(), "!include")
		if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		if arg := strings.TrimSpace(rest); arg != "" {
			includes = append(includes, arg)
		}
	}
	return includes
}
