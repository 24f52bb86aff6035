/*
PURPOSE:
  Question Store. Loads question-bank documents from <bench_dir>/questions.

REQUIREMENTS:
  User-specified:
  - Load every bank document in the directory, or a single archetype's file
    when a type filter is given.
  - Missing or malformed documents are reported at load time.

  Implementation-discovered:
  - Banks are authored in JSON or YAML; the extension decides the parser.
  - JSON documents are checked against an embedded JSON Schema first so a
    typo like "should_abstain": "yes" is caught before any grading.
  - A document without a "questions" key contributes nothing.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Produces: []model.Question

ERROR HANDLING:
  - Returns wrapped errors naming the offending file.
  - Schema violations wrap ErrInvalidDocument.
  - A missing type-filtered file is not an error (empty list + warning).

IMPLEMENTATION RULES:
  - Files are read in lexical order so runs are reproducible.

USAGE:
  st := question.NewStore(cfg.BenchDir)
  qs, err := st.Load("")            // all archetypes
  qs, err := st.Load("fact_exact")  // one archetype

SELF-HEALING INSTRUCTIONS:
  - If a bank fails validation, compare it with schema.json.

RELATED FILES:
  - internal/question/schema.json
  - internal/model/types.go

MAINTENANCE:
  - Update schema.json together with model.Question.
*/

package question

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/lexbench/internal/model"
	"github.com/daryltucker/lexbench/internal/output"
)

// ErrInvalidDocument is returned when a bank document violates the schema.
var ErrInvalidDocument = errors.New("invalid question bank document")

//go:embed schema.json
var schemaJSON string

var bankSchema = jsonschema.MustCompileString("lexbench://question-bank.json", schemaJSON)

var extensions = []string{".json", ".yaml", ".yml"}

// document is the on-disk shape of a question bank file.
type document struct {
	Questions []model.Question `json:"questions" yaml:"questions"`
}

// Store loads question banks from a directory.
type Store struct {
	Dir string
}

// NewStore returns a Store reading from benchDir/questions.
func NewStore(benchDir string) *Store {
	return &Store{Dir: filepath.Join(benchDir, "questions")}
}

// Load returns the questions of every bank document, or only those in the
// file named after kind when kind is non-empty.
func (s *Store) Load(kind string) ([]model.Question, error) {
	if kind != "" {
		return s.loadKind(kind)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read question directory %s: %w", s.Dir, err)
	}

	var questions []model.Question
	for _, entry := range entries {
		if entry.IsDir() || !isBankFile(entry.Name()) {
			continue
		}
		qs, err := LoadFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		output.Logger.Debug("Loaded question bank", "file", entry.Name(), "count", len(qs))
		questions = append(questions, qs...)
	}
	return questions, nil
}

func (s *Store) loadKind(kind string) ([]model.Question, error) {
	for _, ext := range extensions {
		path := filepath.Join(s.Dir, kind+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	output.Logger.Warn("No question bank for type", "type", kind, "dir", s.Dir)
	return nil, nil
}

// LoadFile parses a single bank document.
func LoadFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := validateJSON(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml %s: %w", path, err)
		}
	}
	return doc.Questions, nil
}

func validateJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := bankSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

func isBankFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Counts returns the number of questions per archetype tag.
func Counts(questions []model.Question) map[string]int {
	counts := make(map[string]int)
	for _, q := range questions {
		counts[q.Kind()]++
	}
	return counts
}
