package config

import "github.com/spf13/pflag"

const (
	FLAG_SERVER_ADDRESS = "addr"
	FLAG_SERVER_PATH    = "path"
	FLAG_SERVER_DEBUG   = "debug"

	FLAG_CONFIG_FILE = "config"
	FLAG_ENV_FILE    = "env-file"

	FLAG_BOT_TOKEN   = "token"
	FLAG_BOT_CHAT_ID = "chat-id"
	FLAG_PERSONA     = "persona"

	FLAG_LOG_LEVEL  = "log-level"
	FLAG_LOG_FORMAT = "log-format"

	FLAG_OBSERVE_ENABLE   = "observe"
	FLAG_OBSERVE_EXPORTER = "observe-exporter"
)

var flagToConfigKeyMap = map[string]string{
	FLAG_SERVER_ADDRESS: "server.address",
	FLAG_SERVER_PATH:    "server.path",
	FLAG_SERVER_DEBUG:   "server.debug",

	FLAG_BOT_TOKEN:   "bot.token",
	FLAG_BOT_CHAT_ID: "bot.chat_id",
	FLAG_PERSONA:     "persona",

	FLAG_LOG_LEVEL:  "log.level",
	FLAG_LOG_FORMAT: "log.format",

	FLAG_OBSERVE_ENABLE:   "observe.enable",
	FLAG_OBSERVE_EXPORTER: "observe.exporter",
}

// NewFlagSet defines the set of flags read by LoadAndValidate.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	// server
	fs.String(FLAG_SERVER_ADDRESS, "", "server address")
	fs.String(FLAG_SERVER_PATH, "", "webhook path")
	fs.Bool(FLAG_SERVER_DEBUG, false, "debug log")
	fs.String(FLAG_CONFIG_FILE, "", "path to config file")
	fs.String(FLAG_ENV_FILE, "", "path to .env file")

	// bot
	fs.String(FLAG_BOT_TOKEN, "", "telegram bot token")
	fs.String(FLAG_BOT_CHAT_ID, "", "served chat id")
	fs.String(FLAG_PERSONA, "", "persona: putin, default, friendly, professional or funny")

	// log
	fs.String(FLAG_LOG_LEVEL, "", "log level: debug, info, warn, error")
	fs.String(FLAG_LOG_FORMAT, "", "log format: text or json")

	// observe
	fs.Bool(FLAG_OBSERVE_ENABLE, false, "enable observability default false")
	fs.String(FLAG_OBSERVE_EXPORTER, "", "observability exporter: stdout, http or prometheus")
	return fs
}
