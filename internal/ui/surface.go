package ui

import (
	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// KeySettingsURL is the Git host's key-management page, opened after a
// new public key is generated.
const KeySettingsURL = "https://github.com/settings/keys"

// CopyToClipboard places text on the system clipboard.
// Returns false when no clipboard utility is available.
func CopyToClipboard(text string) bool {
	if clipboard.Unsupported {
		return false
	}
	return clipboard.WriteAll(text) == nil
}

// OpenKeySettings opens the key-management page in the default browser.
// Returns false when no browser launcher is available; the caller falls
// back to printing the URL.
func OpenKeySettings() bool {
	return browser.OpenURL(KeySettingsURL) == nil
}
