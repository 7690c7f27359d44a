package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"http://localhost:8000", true},
		{"https://fuzz.example.com", true},
		{"http://127.0.0.1:8000/api", true},
		{"", false},
		{"localhost:8000", false}, // no scheme
		{"ftp://example.com", false},
		{"http://", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		err := ValidateHTTPURL(tt.input)
		if tt.valid && err != nil {
			t.Errorf("ValidateHTTPURL(%q) unexpected error: %v", tt.input, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateHTTPURL(%q) expected error, got nil", tt.input)
		}
	}
}

func TestValidateOptionalHTTPURL(t *testing.T) {
	if err := ValidateOptionalHTTPURL(""); err != nil {
		t.Errorf("empty should be valid: %v", err)
	}
	if err := ValidateOptionalHTTPURL("not a url"); err == nil {
		t.Error("invalid URL should fail")
	}
}

func TestValidateHostPort(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"localhost:8080", true},
		{"127.0.0.1:2000", true},
		{"[::1]:443", true},
		{"", false},
		{"localhost", false},
		{":8080", false},
		{"localhost:0", false},
		{"localhost:99999", false},
		{"localhost:http", false},
	}
	for _, tt := range tests {
		err := ValidateHostPort(tt.input)
		if tt.valid && err != nil {
			t.Errorf("ValidateHostPort(%q) unexpected error: %v", tt.input, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateHostPort(%q) expected error, got nil", tt.input)
		}
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"1", true},
		{"8080", true},
		{"65535", true},
		{"", false},
		{"0", false},
		{"65536", false},
		{"99999999999999999999", false},
		{"-1", false},
	}
	for _, tt := range tests {
		err := ValidatePort(tt.input)
		if tt.valid && err != nil {
			t.Errorf("ValidatePort(%q) unexpected error: %v", tt.input, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidatePort(%q) expected error, got nil", tt.input)
		}
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, ok := range []string{"debug", "info", "warn", "error", ""} {
		if err := ValidateLogLevel(ok); err != nil {
			t.Errorf("ValidateLogLevel(%q) unexpected error: %v", ok, err)
		}
	}
	if err := ValidateLogLevel("chatty"); err == nil {
		t.Error("unknown level should fail")
	}
}

func TestValidateOptionalDir(t *testing.T) {
	if err := ValidateOptionalDir(""); err != nil {
		t.Errorf("empty should be valid: %v", err)
	}
	dir := t.TempDir()
	if err := ValidateOptionalDir(dir); err != nil {
		t.Errorf("existing dir should pass: %v", err)
	}
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateOptionalDir(file); err == nil {
		t.Error("file should fail (not a directory)")
	}
	if err := ValidateOptionalDir(filepath.Join(dir, "nope")); err == nil {
		t.Error("missing dir should fail")
	}
}
