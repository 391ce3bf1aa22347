package backend

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenizeConfig(t *testing.T) {
	src := `-R theories Foo
# a comment line
-Q "quoted dir" Bar.Baz
-arg -noinit
`
	tokens, err := tokenizeConfig(src)
	if err != nil {
		t.Fatalf("tokenizeConfig: %v", err)
	}
	want := []string{"-R", "theories", "Foo", "-Q", "quoted dir", "Bar.Baz", "-arg", "-noinit"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d: got %q want %q", i, tokens[i], want[i])
		}
	}
}

func TestTokenizeConfigUnterminatedQuote(t *testing.T) {
	if _, err := tokenizeConfig(`-R "unterminated`); err == nil {
		t.Fatal("expected an error for an unterminated quote")
	}
}

func TestParseProjectConfigInterpretsOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	src := `-R theories Foo
theories/Foo.v
theories/Bar.v
-arg "-w -notation-overridden"
-I ml
-Q extra Extra.Lib
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	args, err := ParseProjectConfig(path)
	if err != nil {
		t.Fatalf("ParseProjectConfig: %v", err)
	}
	// Source file listings are dropped, and the -arg operand is spliced
	// in unwrapped rather than passed as a literal "-arg X" pair.
	want := []string{"-R", "theories", "Foo", "-w", "-notation-overridden", "-I", "ml", "-Q", "extra", "Extra.Lib"}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d: %+v", len(args), len(want), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: got %q want %q", i, args[i], want[i])
		}
	}
}

func TestInterpretOptionsMissingOperand(t *testing.T) {
	for _, tokens := range [][]string{
		{"-R", "theories"},
		{"-Q", "extra"},
		{"-I"},
		{"-arg"},
	} {
		if _, err := interpretOptions(tokens); err == nil {
			t.Errorf("interpretOptions(%v): expected an error for a missing operand", tokens)
		}
	}
}

func TestFindProjectConfigWalksAncestors(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	configPath := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("-R . Root\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	found, ok := FindProjectConfig(nested)
	if !ok {
		t.Fatal("expected to find the project config in an ancestor")
	}
	if found != configPath {
		t.Fatalf("found %q, want %q", found, configPath)
	}
}

func TestFindProjectConfigNotFound(t *testing.T) {
	root := t.TempDir()
	if _, ok := FindProjectConfig(root); ok {
		t.Fatal("expected no project config to be found")
	}
}
