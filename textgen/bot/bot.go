package bot

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/odit-bit/textgen/generate"
	"github.com/odit-bit/textgen/textgen/config"
	tele "gopkg.in/telebot.v4"
)

// fallback when the config holds no token
const tokenEnv = "TG_BOT_API_KEY"

// Run polls telegram until ctx is done.
func Run(ctx context.Context, cfg config.Bot, g Generator, defaults generate.Options) error {
	token := cfg.Token
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	if token == "" {
		return errors.New("telegram bot token is required")
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
	})
	if err != nil {
		return err
	}

	sessions := NewSessions(defaults, cfg.SessionTTL)
	go sessions.Start()
	defer sessions.Stop()

	Handle(bot, NewHandler(ctx, g, sessions))

	done := make(chan struct{})
	go func() {
		slog.Info("telegram bot polling", "user", bot.Me.Username)
		bot.Start()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	bot.Stop()
	<-done
	return nil
}
