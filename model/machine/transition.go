package machine

import (
	"encoding/json"
	"fmt"
	"gopkg.in/yaml.v3"
	"unicode/utf8"
)

// Blank is the reserved empty-cell symbol used for tape growth and trimming.
const Blank = '_'

// NoSymbol marks a transition that leaves the cell under the head untouched.
const NoSymbol rune = 0

// Direction represents head movement
type Direction int8

const (
	// Stay keeps the head in place
	Stay Direction = 0
	// Left moves the head one cell left
	Left Direction = -1
	// Right moves the head one cell right
	Right Direction = 1
)

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "stay"
	}
}

// Transition represents (readState, readSymbol) -> (writeState, writeSymbol, move)
type Transition struct {
	ReadState   string
	ReadSymbol  rune
	WriteState  string
	WriteSymbol rune // NoSymbol leaves the cell unchanged
	Move        Direction
}

// Matches returns true if the transition is triggered by state and symbol
func (t *Transition) Matches(state string, symbol rune) bool {
	return t.ReadState == state && t.ReadSymbol == symbol
}

// String returns a compact representation of the transition
func (t *Transition) String() string {
	write := "-"
	if t.WriteSymbol != NoSymbol {
		write = string(t.WriteSymbol)
	}
	return fmt.Sprintf("(%s,%c)->(%s,%s,%s)", t.ReadState, t.ReadSymbol, t.WriteState, write, t.Move)
}

// transitionDocument is the wire form; nil pointers encode the no-op variants
type transitionDocument struct {
	ReadState     string  `json:"readState" yaml:"readState"`
	ReadSymbol    string  `json:"readSymbol" yaml:"readSymbol"`
	WriteState    string  `json:"writeState" yaml:"writeState"`
	WriteSymbol   *string `json:"writeSymbol" yaml:"writeSymbol"`
	MoveDirection *bool   `json:"moveDirection" yaml:"moveDirection"`
}

func (t *Transition) document() *transitionDocument {
	ret := &transitionDocument{
		ReadState:  t.ReadState,
		ReadSymbol: string(t.ReadSymbol),
		WriteState: t.WriteState,
	}
	if t.WriteSymbol != NoSymbol {
		symbol := string(t.WriteSymbol)
		ret.WriteSymbol = &symbol
	}
	switch t.Move {
	case Right:
		right := true
		ret.MoveDirection = &right
	case Left:
		left := false
		ret.MoveDirection = &left
	}
	return ret
}

func (t *Transition) fromDocument(doc *transitionDocument) error {
	readSymbol, err := parseSymbol(doc.ReadSymbol)
	if err != nil {
		return fmt.Errorf("invalid readSymbol %q: %w", doc.ReadSymbol, err)
	}
	t.ReadState = doc.ReadState
	t.ReadSymbol = readSymbol
	t.WriteState = doc.WriteState
	t.WriteSymbol = NoSymbol
	if doc.WriteSymbol != nil {
		if t.WriteSymbol, err = parseSymbol(*doc.WriteSymbol); err != nil {
			return fmt.Errorf("invalid writeSymbol %q: %w", *doc.WriteSymbol, err)
		}
	}
	t.Move = Stay
	if doc.MoveDirection != nil {
		if *doc.MoveDirection {
			t.Move = Right
		} else {
			t.Move = Left
		}
	}
	return nil
}

// MarshalJSON encodes the transition as a document entry
func (t Transition) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.document())
}

// UnmarshalJSON decodes a document entry
func (t *Transition) UnmarshalJSON(data []byte) error {
	doc := &transitionDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return err
	}
	return t.fromDocument(doc)
}

// MarshalYAML encodes the transition as a document entry
func (t Transition) MarshalYAML() (interface{}, error) {
	return t.document(), nil
}

// UnmarshalYAML decodes a document entry
func (t *Transition) UnmarshalYAML(node *yaml.Node) error {
	doc := &transitionDocument{}
	if err := node.Decode(doc); err != nil {
		return err
	}
	return t.fromDocument(doc)
}

func parseSymbol(value string) (rune, error) {
	if utf8.RuneCountInString(value) != 1 {
		return NoSymbol, ErrInvalidSymbol
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == NoSymbol || r == utf8.RuneError {
		return NoSymbol, ErrInvalidSymbol
	}
	return r, nil
}
