package core

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// AccountType discriminates the tagged union of account variants this core
// stores. Credential acquisition itself (password prompts, device-code UI)
// is an external collaborator; this package holds the variant's storage
// shape (the UUID and AccessToken fields) and the launch-time methods
// DisplayName, CanLaunchGame and IsExpired. Account has no refresh or
// serialization method of its own: tokens are not refreshed here, and
// accounts are persisted through encoding/json by AccountManager.
type AccountType string

const (
	AccountTypeOffline AccountType = "offline"
	AccountTypeMojang  AccountType = "mojang" // legacy Yggdrasil username/password
	AccountTypeMSA     AccountType = "msa"    // modern MSA/Xbox/XSTS device-code
)

// Account represents one stored launcher account, regardless of variant.
type Account struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            AccountType `json:"type"`
	UUID            string      `json:"uuid"` // hex, no dashes
	AccessToken     string      `json:"accessToken,omitempty"`
	ExpiresAt       time.Time   `json:"expiresAt,omitempty"`
	MSARefreshToken string      `json:"msaRefreshToken,omitempty"`
	IsAuthenticated bool        `json:"isAuthenticated,omitempty"`
}

// NewOfflineAccount builds an offline account whose UUID is deterministic:
// UUIDv3 with the nil (all-zero) namespace over "OfflinePlayer:<name>".
func NewOfflineAccount(name string) *Account {
	return &Account{
		ID:   name,
		Name: name,
		Type: AccountTypeOffline,
		UUID: OfflineUUID(name),
	}
}

// OfflineUUID derives a Minecraft-compatible offline-mode UUID for a player
// name: UUIDv3 over the nil namespace, i.e. MD5 of the 16 zero namespace
// bytes followed by the ASCII string "OfflinePlayer:<name>", with the
// version (3) and RFC 4122 variant bits set, hex-encoded without dashes.
func OfflineUUID(name string) string {
	var nilNamespace [16]byte
	sum := md5.Sum(append(nilNamespace[:], "OfflinePlayer:"+name...))
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return hex.EncodeToString(sum[:])
}

// IsExpired reports whether the account's access token needs a refresh,
// with a 5-minute buffer. Offline accounts never expire.
func (a *Account) IsExpired() bool {
	if a.Type == AccountTypeOffline {
		return false
	}
	return time.Now().Add(5 * time.Minute).After(a.ExpiresAt)
}

// DisplayName is the name shown to the game and the user.
func (a *Account) DisplayName() string { return a.Name }

// CanLaunchGame reports whether the account currently holds credentials
// sufficient to launch: offline accounts always can; online accounts need
// a non-empty access token.
func (a *Account) CanLaunchGame() bool {
	if a.Type == AccountTypeOffline {
		return true
	}
	return a.AccessToken != ""
}
