package handlers

// User-facing reply texts.
const (
	msgWelcome = "Hi! I'm a group moderation bot: I remove messages based on emoji reactions and content rules.\nUse /help to see the available commands."

	msgHelp = "Available commands:\n" +
		"/start - start the bot\n" +
		"/help - show this help\n" +
		"/monitor - start moderating this group\n" +
		"/stopmonitor - stop moderating this group\n" +
		"/status - show moderation status\n" +
		"/settime HH:MM - set the daily batch deletion time\n" +
		"/setprompt <text> - set the content classification prompt (admin only)\n" +
		"/setllm <url> <model> <key> - set the classification endpoint (admin only)\n" +
		"/sweepnow - run the batch deletion immediately\n\n" +
		"How it works:\n" +
		"- a message with a 💩 reaction is deleted immediately\n" +
		"- a message with a 👎 reaction is queued for the daily batch deletion\n" +
		"- for anonymous reactions, 3 or more 👎 delete the message immediately\n" +
		"- I need permission to delete messages for any of this to work"

	msgGroupsOnly       = "This command can only be used in a group."
	msgNeedPermission   = "Please make sure I have permission to delete messages!"
	msgPermissionErr    = "I couldn't verify my permissions in this group. Please try again later."
	msgMonitorStarted   = "Now moderating reactions and content in this group."
	msgMonitorStopped   = "Stopped moderating this group."
	msgNotMonitored     = "This group is not currently being moderated."
	msgNotAuthorized    = "You are not authorized to use this command."
	msgMessageRemoved   = "A message was removed due to negative reactions."
	msgBadTimeFormat    = "Invalid time. Use 24-hour HH:MM, for example /settime 03:30."
	msgSetPromptCleared = "Classification prompt cleared; content classification is disabled."
	msgSetLLMUsage      = "Usage: /setllm <url> <model> <key>"
)

// flagEmoji is the cosmetic reaction applied to messages the
// classifier flags for deletion.
const flagEmoji = "👀"
