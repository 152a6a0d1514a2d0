package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its middleware.
// It encapsulates all information needed to register a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available
// bot commands. Prompt and endpoint changes are restricted to the
// configured admin; everything else is open to any member.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/help"] = command("help", NewHelpHandler(deps))
	handlers["/monitor"] = command("monitor", NewMonitorHandler(deps))
	handlers["/stopmonitor"] = command("stopmonitor", NewStopMonitorHandler(deps))
	handlers["/status"] = command("status", NewStatusHandler(deps))
	handlers["/settime"] = command("settime", NewSetTimeHandler(deps))
	handlers["/sweepnow"] = command("sweepnow", NewSweepNowHandler(deps))

	adminMiddleware := []tgbot.Middleware{AdminOnly(deps)}
	handlers["/setprompt"] = command("setprompt", NewSetPromptHandler(deps), adminMiddleware...)
	handlers["/setllm"] = command("setllm", NewSetLLMHandler(deps), adminMiddleware...)

	return handlers
}
