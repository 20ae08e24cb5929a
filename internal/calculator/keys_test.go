package calculator

import (
	"context"
	"testing"
)

func TestShortcutFor(t *testing.T) {
	tests := []struct {
		key  string
		want Action
		ok   bool
	}{
		{key: "a", want: ActionAdd, ok: true},
		{key: "s", want: ActionSubtract, ok: true},
		{key: "m", want: ActionMultiply, ok: true},
		{key: "d", want: ActionDivide, ok: true},
		{key: "c", want: ActionClear, ok: true},
		{key: "A"},
		{key: "x"},
		{key: ""},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, ok := ShortcutFor(tc.key)
			if ok != tc.ok || (ok && got != tc.want) {
				t.Fatalf("ShortcutFor(%q): expected (%v, %t), got (%v, %t)", tc.key, tc.want, tc.ok, got, ok)
			}
		})
	}
}

func TestHandleKeyRequiresMount(t *testing.T) {
	ctx := context.Background()
	v := NewView(false)
	v.SetOperands("2", "3")

	if v.HandleKey(ctx, "a") {
		t.Fatal("expected key to be ignored before mount")
	}

	v.Mount()
	if !v.HandleKey(ctx, "a") {
		t.Fatal("expected key to be handled while mounted")
	}
	if v.Result() != "5" {
		t.Fatalf("expected result 5, got %q", v.Result())
	}

	v.Unmount()
	if v.HandleKey(ctx, "m") {
		t.Fatal("expected key to be ignored after unmount")
	}
	if got := len(v.History()); got != 1 {
		t.Fatalf("expected 1 history record, got %d", got)
	}
}

func TestHandleKeyRunsEveryShortcut(t *testing.T) {
	ctx := context.Background()
	v := NewView(false)
	v.Mount()
	v.SetOperands("8", "2")

	want := []string{"10", "6", "16", "4"}
	for i, key := range []string{"a", "s", "m", "d"} {
		if !v.HandleKey(ctx, key) {
			t.Fatalf("key %q not handled", key)
		}
		if v.Result() != want[i] {
			t.Fatalf("key %q: expected %q, got %q", key, want[i], v.Result())
		}
	}

	if !v.HandleKey(ctx, "c") {
		t.Fatal("clear key not handled")
	}
	if v.OperandA() != "" || v.OperandB() != "" || v.Result() != "" || len(v.History()) != 0 {
		t.Fatalf("expected cleared view, got %+v", v.Snapshot())
	}
	if v.HandleKey(ctx, "q") {
		t.Fatal("expected unknown key to be ignored")
	}
}

func TestShortcutsReturnsCopy(t *testing.T) {
	s := Shortcuts()
	s[0].Key = "z"

	if _, ok := ShortcutFor("z"); ok {
		t.Fatal("mutating Shortcuts() result changed the bindings")
	}
	if len(Shortcuts()) != 5 {
		t.Fatalf("expected 5 shortcuts, got %d", len(Shortcuts()))
	}
}
