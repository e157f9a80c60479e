package persona

import "strings"

// BuildPrompt composes the single user message sent to a generation provider.
func BuildPrompt(key, groupContext, userText string) string {
	var b strings.Builder
	b.WriteString(Parse(key).Template())
	b.WriteString("\n\nКонтекст: тебе написали в групповом чате.\n")
	b.WriteString(groupContext)
	b.WriteString("\nСообщение: ")
	b.WriteString(userText)
	b.WriteString("\n\nОтветь на это сообщение естественно, как в обычном разговоре.")
	return b.String()
}
