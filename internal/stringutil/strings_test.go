package stringutil

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Central Library", "central library"},
		{"punctuation", "where's the ID-card office?", "where s the id card office"},
		{"collapse_whitespace", "  take   me\tto the\ngate ", "take me to the gate"},
		{"fullwidth_digits", "Ｒｏｏｍ　１０１", "room 101"},
		{"empty", "", ""},
		{"only_punctuation", "?!...,;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDistinctTokens(t *testing.T) {
	got := DistinctTokens("the library, the LIBRARY desk")
	want := []string{"the", "library", "desk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctTokens = %v, want %v", got, want)
	}
}

func TestContainsPhrase(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		phrase   string
		expected bool
	}{
		{"exact", "where is the central library", "central library", true},
		{"word_boundary", "delegate office", "gate", false},
		{"start", "library opening hours", "library", true},
		{"end", "take me to the main gate", "main gate", true},
		{"missing", "where is the cafeteria", "library", false},
		{"empty_phrase", "anything", "", false},
		{"empty_text", "", "gate", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsPhrase(tt.text, tt.phrase); got != tt.expected {
				t.Errorf("ContainsPhrase(%q, %q) = %v, want %v", tt.text, tt.phrase, got, tt.expected)
			}
		})
	}
}
