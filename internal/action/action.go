package action

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Kind discriminates the action variants.
type Kind string

const (
	KindOpenURL  Kind = "open_url"
	KindClick    Kind = "click"
	KindType     Kind = "type"
	KindKeyPress Kind = "keypress"
	KindScroll   Kind = "scroll"
	KindWait     Kind = "wait"
	KindExtract  Kind = "extract"
)

// Defaults applied when the corresponding field is absent.
const (
	DefaultScrollAmount = 500
	DefaultWaitSeconds  = 1.0
)

// Action represents a single step in a scenario. Only the fields relevant
// to its Type are consulted at dispatch; unknown or missing fields never
// abort a run. Pointer fields distinguish "absent" from an explicit zero so
// scenarios round-trip losslessly through JSON.
type Action struct {
	Type        Kind     `json:"type"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`       // open_url
	Selector    string   `json:"selector,omitempty"`  // click, type, extract
	Text        string   `json:"text,omitempty"`      // type
	Key         string   `json:"key,omitempty"`       // keypress
	Direction   string   `json:"direction,omitempty"` // scroll: "down" (default) or "up"
	Amount      *int     `json:"amount,omitempty"`    // scroll pixels, default 500
	Seconds     *float64 `json:"seconds,omitempty"`   // wait, may be fractional, default 1
	All         *bool    `json:"all,omitempty"`       // extract, default true (reserved)
}

// Describe returns the human-readable label for log lines, falling back to
// the action type when no description was authored.
func (a Action) Describe() string {
	if a.Description != "" {
		return a.Description
	}
	return string(a.Type)
}

// ScrollDelta computes the signed pixel delta for a scroll action:
// positive for "down" (the default), negated for "up".
func (a Action) ScrollDelta() int {
	amount := DefaultScrollAmount
	if a.Amount != nil {
		amount = *a.Amount
	}
	if strings.EqualFold(a.Direction, "up") {
		return -amount
	}
	return amount
}

// WaitDuration returns the wait action's pause, honoring fractional seconds.
func (a Action) WaitDuration() time.Duration {
	seconds := DefaultWaitSeconds
	if a.Seconds != nil {
		seconds = *a.Seconds
	}
	return time.Duration(seconds * float64(time.Second))
}

// WaitSeconds returns the authored wait length in seconds.
func (a Action) WaitSeconds() float64 {
	if a.Seconds != nil {
		return *a.Seconds
	}
	return DefaultWaitSeconds
}

// CollectAll reports whether an extract action gathers every match.
// Currently always true in effect; the flag is reserved for future
// first-match-only semantics and is preserved through serialization.
func (a Action) CollectAll() bool {
	if a.All != nil {
		return *a.All
	}
	return true
}

// Load reads a scenario file: a UTF-8 JSON array of actions.
func Load(path string) ([]Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Decode(data)
}

// Decode parses a JSON array of actions.
func Decode(data []byte) ([]Action, error) {
	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return actions, nil
}

// Save writes the scenario as an indented UTF-8 JSON array, the same shape
// Load consumes.
func Save(path string, actions []Action) error {
	data, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}
