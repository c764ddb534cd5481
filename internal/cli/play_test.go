package cli

import (
	"testing"

	"github.com/quasar/mccore/internal/config"
	"github.com/quasar/mccore/internal/core"
)

func withTestAccounts(t *testing.T, accounts []*core.Account, activeID string) {
	t.Helper()
	prev := app
	mgr := &core.AccountManager{Accounts: accounts, ActiveID: activeID}
	app = &App{Config: config.DefaultConfig(), Accounts: mgr}
	t.Cleanup(func() { app = prev })
}

func TestResolveAccount_ByName(t *testing.T) {
	alice := core.NewOfflineAccount("alice")
	bob := core.NewOfflineAccount("bob")
	withTestAccounts(t, []*core.Account{alice, bob}, alice.ID)

	got := resolveAccount("bob")
	if got == nil || got.Name != "bob" {
		t.Fatalf("resolveAccount(bob) = %v, want bob", got)
	}
}

func TestResolveAccount_UnknownNameReturnsNil(t *testing.T) {
	alice := core.NewOfflineAccount("alice")
	withTestAccounts(t, []*core.Account{alice}, alice.ID)

	if got := resolveAccount("nobody"); got != nil {
		t.Fatalf("resolveAccount(nobody) = %v, want nil", got)
	}
}

func TestResolveAccount_FallsBackToActive(t *testing.T) {
	alice := core.NewOfflineAccount("alice")
	bob := core.NewOfflineAccount("bob")
	withTestAccounts(t, []*core.Account{alice, bob}, bob.ID)

	got := resolveAccount("")
	if got == nil || got.Name != "bob" {
		t.Fatalf("resolveAccount(\"\") = %v, want the active account bob", got)
	}
}

func TestHostDescription_HasOSAndArch(t *testing.T) {
	desc := hostDescription()
	if desc == "" || desc == "/" {
		t.Errorf("hostDescription() = %q, want os/arch", desc)
	}
}
