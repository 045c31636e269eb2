package bot

// Command constants for Telegram bot commands.
const (
	CommandStart = "/start"
	CommandFact  = "/fact"
	CommandQuiz  = "/quiz"
	CommandHelp  = "/help"
)
