package zdchat

import "strings"

// FailureNotice is stored as the assistant reply when the backend cannot be
// reached or answers with an error.
const FailureNotice = "❌ Unable to reach server."

// FormatReply joins reply segments with newlines and breaks sentences onto
// their own lines by turning every ". " into ".\n". The transform is lossy
// and applied before the reply is stored.
func FormatReply(parts []string) string {
	joined := strings.Join(parts, "\n")
	return strings.ReplaceAll(joined, ". ", ".\n")
}
