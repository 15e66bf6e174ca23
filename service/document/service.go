package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/model/task"
	"gopkg.in/yaml.v3"
)

// Result represents the fetch document: the machine after execution plus the task outcome
type Result struct {
	ID              string `json:"id" yaml:"id"`
	machine.Machine `yaml:",inline"`
	Done            bool         `json:"done" yaml:"done"`
	Halt            machine.Halt `json:"halt,omitempty" yaml:"halt,omitempty"`
	Owner           string       `json:"owner,omitempty" yaml:"owner,omitempty"`
	Steps           int          `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// NewResult creates a result document for the task
func NewResult(aTask *task.Task) *Result {
	ret := &Result{
		ID:    aTask.ID,
		Done:  aTask.Done,
		Halt:  aTask.Halt,
		Owner: aTask.Owner,
		Steps: aTask.Steps,
	}
	if aTask.Machine != nil {
		ret.Machine = *aTask.Machine.Clone()
	}
	return ret
}

// Service reads and writes documents over any afs supported URL (file, mem, cloud storage)
type Service struct {
	fs afs.Service
}

// LoadMachine downloads and decodes a machine document; the format follows the URL extension
func (s *Service) LoadMachine(ctx context.Context, URL string) (*machine.Machine, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	ret, err := machine.Decode(data, machine.FormatOf(URL))
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %w", URL, err)
	}
	return ret, nil
}

// SaveResult encodes and uploads a result document
func (s *Service) SaveResult(ctx context.Context, URL string, result *Result) error {
	data, err := machine.Encode(result, machine.FormatOf(URL))
	if err != nil {
		return fmt.Errorf("failed to encode result %v: %w", result.ID, err)
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %v: %w", URL, err)
	}
	return nil
}

// Load downloads a JSON or YAML document into target, expanding ${env.KEY} expressions first
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to download %v: %w", URL, err)
	}
	data = []byte(expandEnvExpr(string(data)))
	switch machine.FormatOf(URL) {
	case machine.FormatYAML:
		err = yaml.Unmarshal(data, target)
	default:
		err = json.Unmarshal(data, target)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return nil
}

// New creates a document service
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}
