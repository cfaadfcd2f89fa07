package layout

import (
	"fmt"
	"strings"
)

// MessageKind identifies a runtime reconfiguration request.
type MessageKind int

const (
	Increase MessageKind = iota
	Decrease
	IncreaseSlave
	DecreaseSlave
	IncreaseMaster
	DecreaseMaster
	IncreaseGap
	DecreaseGap
	Next
	Prev
	TreeRotate
	TreeSwap
	TreeExpandTowards
	TreeShrinkFrom
	Hide
)

var messageNames = map[MessageKind]string{
	Increase:          "increase",
	Decrease:          "decrease",
	IncreaseSlave:     "increase-slave",
	DecreaseSlave:     "decrease-slave",
	IncreaseMaster:    "increase-master",
	DecreaseMaster:    "decrease-master",
	IncreaseGap:       "increase-gap",
	DecreaseGap:       "decrease-gap",
	Next:              "next",
	Prev:              "prev",
	TreeRotate:        "tree-rotate",
	TreeSwap:          "tree-swap",
	TreeExpandTowards: "tree-expand-towards",
	TreeShrinkFrom:    "tree-shrink-from",
	Hide:              "hide",
}

// Message is a tagged layout command. Dir is only meaningful for
// TreeExpandTowards and TreeShrinkFrom.
type Message struct {
	Kind MessageKind
	Dir  Direction
}

// Directional reports whether the message carries a direction.
func (m Message) Directional() bool {
	return m.Kind == TreeExpandTowards || m.Kind == TreeShrinkFrom
}

// Transpose maps the direction of a directional message into transposed
// coordinates. Other messages are returned unchanged.
func (m Message) Transpose() Message {
	if m.Directional() {
		m.Dir = m.Dir.Transpose()
	}
	return m
}

func (m Message) String() string {
	name, ok := messageNames[m.Kind]
	if !ok {
		return fmt.Sprintf("message(%d)", int(m.Kind))
	}
	if m.Directional() {
		return name + ":" + m.Dir.String()
	}
	return name
}

// ParseMessage parses the wire form produced by String, for example
// "next" or "tree-expand-towards:left".
func ParseMessage(s string) (Message, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	for kind, n := range messageNames {
		if n != name {
			continue
		}
		m := Message{Kind: kind}
		if !m.Directional() {
			if hasArg {
				return Message{}, fmt.Errorf("message %q takes no argument", name)
			}
			return m, nil
		}
		if !hasArg {
			return Message{}, fmt.Errorf("message %q requires a direction (e.g. %s:left)", name, name)
		}
		dir, err := ParseDirection(arg)
		if err != nil {
			return Message{}, err
		}
		m.Dir = dir
		return m, nil
	}
	return Message{}, fmt.Errorf("unknown layout message %q", s)
}

// MessageNames lists the accepted message names in declaration order.
func MessageNames() []string {
	out := make([]string, 0, len(messageNames))
	for k := Increase; k <= Hide; k++ {
		out = append(out, messageNames[k])
	}
	return out
}

func (m Message) MarshalText() ([]byte, error) {
	if _, ok := messageNames[m.Kind]; !ok {
		return nil, fmt.Errorf("unknown layout message kind %d", int(m.Kind))
	}
	return []byte(m.String()), nil
}

func (m *Message) UnmarshalText(text []byte) error {
	parsed, err := ParseMessage(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
