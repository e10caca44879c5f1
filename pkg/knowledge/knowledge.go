package knowledge

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/model"
	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var defaultProfile []byte

// Default returns the knowledge base shipped with the binary.
func Default() (*model.KnowledgeBase, error) {
	kb, err := Load(bytes.NewReader(defaultProfile))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load embedded profile")
	}
	return kb, nil
}

// Load decodes and validates a YAML knowledge base.
func Load(r io.Reader) (*model.KnowledgeBase, error) {
	var kb model.KnowledgeBase
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&kb); err != nil {
		return nil, goerr.Wrap(err, "failed to decode knowledge base")
	}

	if err := Validate(&kb); err != nil {
		return nil, err
	}

	return &kb, nil
}

// LoadFile reads a YAML knowledge base from the local filesystem.
func LoadFile(path string) (*model.KnowledgeBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open knowledge base", goerr.V("path", path))
	}
	defer f.Close()

	kb, err := Load(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load knowledge base", goerr.V("path", path))
	}
	return kb, nil
}

// Validate checks the invariants the responders rely on: a name to address
// the person by, unique project names, and lookup keywords that select
// exactly one project.
func Validate(kb *model.KnowledgeBase) error {
	if kb.Personal.Name == "" {
		return goerr.New("personal.name is required")
	}
	if kb.Personal.Nickname == "" {
		return goerr.New("personal.nickname is required")
	}

	names := make(map[string]struct{}, len(kb.Projects))
	owners := make(map[string]string)
	for _, p := range kb.Projects {
		if p.Name == "" {
			return goerr.New("project name is required")
		}
		if _, dup := names[p.Name]; dup {
			return goerr.New("duplicate project name", goerr.V("name", p.Name))
		}
		names[p.Name] = struct{}{}

		if len(p.Keywords) == 0 {
			return goerr.New("project has no lookup keywords", goerr.V("name", p.Name))
		}
		for _, kw := range p.Keywords {
			if kw == "" || kw != strings.ToLower(kw) {
				return goerr.New("project keyword must be non-empty lowercase",
					goerr.V("name", p.Name), goerr.V("keyword", kw))
			}
			if owner, ok := owners[kw]; ok {
				return goerr.New("project keyword is shared by two projects",
					goerr.V("keyword", kw), goerr.V("first", owner), goerr.V("second", p.Name))
			}
			owners[kw] = p.Name
		}
	}

	return nil
}
