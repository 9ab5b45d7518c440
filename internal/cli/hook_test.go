package cli

import (
	"strings"
	"testing"

	"github.com/morozRed/actionref/internal/config"
)

func TestBuildIndexHookBlockPreservesFormat(t *testing.T) {
	block := BuildIndexHookBlock("/repo/path")

	for _, expected := range []string{
		HookStart,
		`repo_root="/repo/path"`,
		"$repo_root/" + config.DirName + "/index.json",
		"actionref index --quiet >/dev/null) || exit 1",
		HookEnd,
	} {
		if !strings.Contains(block, expected) {
			t.Fatalf("expected hook block to contain %q, got:\n%s", expected, block)
		}
	}
}

func TestUpsertIndexHookReplacesExistingBlock(t *testing.T) {
	existing := "#!/bin/sh\n\necho before\n" + HookStart + "\nold block\n" + HookEnd + "\n\necho after\n"
	updated := UpsertIndexHook(existing, "/repo/path")

	if strings.Contains(updated, "old block") {
		t.Fatalf("expected old hook block to be replaced, got:\n%s", updated)
	}
	if strings.Count(updated, HookStart) != 1 || strings.Count(updated, HookEnd) != 1 {
		t.Fatalf("expected exactly one hook block after update, got:\n%s", updated)
	}
	if !strings.Contains(updated, "echo before") || !strings.Contains(updated, "echo after") {
		t.Fatalf("expected other hook content to be preserved, got:\n%s", updated)
	}
}

func TestUpsertIndexHookAddsShebang(t *testing.T) {
	updated := UpsertIndexHook("echo lint", "/repo/path")

	if !strings.HasPrefix(updated, "#!/bin/sh\necho lint\n\n"+HookStart) {
		t.Fatalf("expected shebang and appended block, got:\n%s", updated)
	}
	if !strings.HasSuffix(updated, HookEnd+"\n") {
		t.Fatalf("expected trailing newline after block, got:\n%s", updated)
	}

	fresh := UpsertIndexHook("", "/repo/path")
	if !strings.HasPrefix(fresh, "#!/bin/sh\n\n"+HookStart) {
		t.Fatalf("expected fresh hook to start with shebang, got:\n%s", fresh)
	}
}
