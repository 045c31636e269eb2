package bot

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/handlers"
	"github.com/faktbot/faktbot/internal/bot/keyboard"
	"github.com/faktbot/faktbot/internal/domain"
	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/internal/facts"
	"github.com/faktbot/faktbot/internal/i18n"
	"github.com/faktbot/faktbot/internal/idempotency"
	"github.com/faktbot/faktbot/internal/middleware"
	"github.com/faktbot/faktbot/internal/quiz"
	"github.com/faktbot/faktbot/internal/render"
	"github.com/faktbot/faktbot/internal/repository"
	"github.com/faktbot/faktbot/pkg/config"
)

// Deps carries everything the bot needs to serve updates.
type Deps struct {
	Ledger      repository.Ledger
	Acquirer    *facts.Acquirer
	RoundMaker  *quiz.RoundFactory
	Renderer    *render.Renderer
	Locales     *i18n.Manager
	ErrHandler  *apperrors.Handler
	Idempotency idempotency.Manager
	Log         *slog.Logger
}

// Bot wraps the Telegram transport and the update router.
type Bot struct {
	tb     *telebot.Bot
	router *Router
	log    *slog.Logger
}

// New creates the bot, builds all handlers, and wires the router.
func New(cfg config.BotConfig, deps Deps) (*Bot, error) {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	pollTimeout := cfg.Timeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}

	settings := telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := &Bot{
		tb:     tb,
		router: NewRouter(log),
		log:    log,
	}

	b.setupRouter(deps)

	tb.Handle(telebot.OnText, b.router.Route)
	tb.Handle(telebot.OnCallback, b.router.Route)

	return b, nil
}

func (b *Bot) setupRouter(deps Deps) {
	kb := keyboard.NewBuilder(b.log)

	factHandler := handlers.NewFactHandler(deps.Acquirer, deps.Renderer, deps.Ledger, kb, deps.Locales, b.log)
	quizHandler := handlers.NewQuizHandler(deps.RoundMaker, deps.Renderer, kb, deps.Locales, b.log)
	startHandler := handlers.NewStartHandler(kb, deps.Locales, b.log)
	helpHandler := handlers.NewHelpHandler(deps.Ledger, deps.Locales, b.log)

	b.router.Use(RecoveryMiddleware(b.log))
	b.router.Use(middleware.Idempotency(deps.Idempotency, b.log))
	b.router.Use(ErrorHandlingMiddleware(deps.ErrHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Metrics)

	b.router.RegisterCommand(CommandStart, startHandler)
	b.router.RegisterCommand(CommandFact, factHandler)
	b.router.RegisterCommand(CommandQuiz, quizHandler)
	b.router.RegisterCommand(CommandHelp, helpHandler)

	b.router.RegisterCallback(keyboard.CallbackSetLanguage, handlers.HandleSetLanguage(deps.Ledger, deps.Locales, b.log))
	b.router.RegisterCallback(keyboard.CallbackQuizAnswer, handlers.HandleQuizAnswer(kb, deps.Locales, b.log))

	// The reply keyboard buttons arrive as plain text in whichever language
	// the menu was rendered in, so every locale's labels are routed.
	for _, lang := range []string{domain.LangRU, domain.LangEN} {
		t := deps.Locales.Translator(lang)
		b.router.RegisterText(t.T("menu.fact"), factHandler)
		b.router.RegisterText(t.T("menu.quiz"), quizHandler)
	}

	b.router.SetDefault(helpHandler)
}

// Start begins long polling. It blocks until Stop is called.
func (b *Bot) Start() {
	b.log.Info("bot started", "username", b.tb.Me.Username)
	b.tb.Start()
}

// Stop halts the poller.
func (b *Bot) Stop() {
	b.log.Info("stopping bot")
	b.tb.Stop()
}

// Telebot exposes the underlying client for health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.tb
}
