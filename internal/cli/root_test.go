package cli

import "testing"

func TestNewRootCommand_WiresExpectedSubcommands(t *testing.T) {
	root := NewRootCommand()

	want := []string{"account", "instance", "version", "config", "play"}
	got := make(map[string]bool)
	for _, c := range root.Commands() {
		got[c.Name()] = true
	}

	for _, name := range want {
		if !got[name] {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewInstanceCommand_WiresExpectedSubcommands(t *testing.T) {
	inst := newInstanceCommand()

	want := []string{"create", "list", "delete", "rename", "dir", "config", "natives", "launch"}
	got := make(map[string]bool)
	for _, c := range inst.Commands() {
		got[c.Name()] = true
	}

	for _, name := range want {
		if !got[name] {
			t.Errorf("instance command missing subcommand %q", name)
		}
	}
}

func TestNewAccountCommand_WiresExpectedSubcommands(t *testing.T) {
	acc := newAccountCommand()

	want := []string{"create", "list", "remove", "setdefault", "refresh"}
	got := make(map[string]bool)
	for _, c := range acc.Commands() {
		got[c.Name()] = true
	}

	for _, name := range want {
		if !got[name] {
			t.Errorf("account command missing subcommand %q", name)
		}
	}
}

func TestNewVersionCommand_WiresExpectedSubcommands(t *testing.T) {
	v := newVersionCommand()

	want := []string{"list", "prepare", "jar"}
	got := make(map[string]bool)
	for _, c := range v.Commands() {
		got[c.Name()] = true
	}

	for _, name := range want {
		if !got[name] {
			t.Errorf("version command missing subcommand %q", name)
		}
	}
}
