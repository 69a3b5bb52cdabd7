package main

import (
	"strings"
	"testing"
)

func TestResolvePassword(t *testing.T) {
	t.Setenv(passwordEnv, "")

	got, err := resolvePassword("", strings.NewReader("s3cret\n"))
	if err != nil || got != "s3cret" {
		t.Errorf("stdin: got %q, %v", got, err)
	}

	got, err = resolvePassword("", strings.NewReader("s3cret\r\nignored\n"))
	if err != nil || got != "s3cret" {
		t.Errorf("stdin with CRLF: got %q, %v", got, err)
	}

	if _, err := resolvePassword("", strings.NewReader("")); err == nil {
		t.Error("expected error for empty stdin")
	}

	t.Setenv(passwordEnv, "from-env")
	got, err = resolvePassword("", strings.NewReader("s3cret\n"))
	if err != nil || got != "from-env" {
		t.Errorf("env: got %q, %v", got, err)
	}

	got, err = resolvePassword("from-flag", strings.NewReader(""))
	if err != nil || got != "from-flag" {
		t.Errorf("flag: got %q, %v", got, err)
	}
}
