package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NotAvailable is the sentinel written for unknown values in the
// intermediate file and in the store.
const NotAvailable = "N/A"

// Text is an optional string. The zero value is absent.
type Text struct {
	value string
	ok    bool
}

// Some returns a present Text holding s.
func Some(s string) Text { return Text{value: s, ok: true} }

// None returns an absent Text.
func None() Text { return Text{} }

// Get returns the value and whether it is present.
func (t Text) Get() (string, bool) { return t.value, t.ok }

// Valid reports whether the value is present.
func (t Text) Valid() bool { return t.ok }

// Or returns the value, or def when absent.
func (t Text) Or(def string) string {
	if !t.ok {
		return def
	}
	return t.value
}

func (t Text) String() string { return t.Or(NotAvailable) }

// MarshalJSON encodes an absent value as the "N/A" sentinel. HTML
// characters are left unescaped so an encoder with SetEscapeHTML(false)
// writes names like "Café & Bar" as-is.
func (t Text) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t.Or(NotAvailable)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON maps the "N/A" sentinel and JSON null back to an absent value.
func (t *Text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == NotAvailable {
		*t = None()
		return nil
	}
	*t = Some(s)
	return nil
}

// TextOf returns Some(s) for non-blank s and None otherwise.
func TextOf(s string) Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return None()
	}
	return Some(s)
}
