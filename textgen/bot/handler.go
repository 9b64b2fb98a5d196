package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/odit-bit/textgen/generate"
	tele "gopkg.in/telebot.v4"
)

// telegram rejects longer messages
const maxMessageRunes = 4096

const helpText = `Send any text and I will continue it.
/settings show current options
/maxlen N set maximum length
/n N set number of sequences
/temp F set temperature
/reset restore defaults`

type Generator interface {
	Generate(ctx context.Context, prompt string, opts generate.Options) ([]string, error)
}

type Handler struct {
	ctx      context.Context
	g        Generator
	sessions *Sessions
}

func NewHandler(ctx context.Context, g Generator, sessions *Sessions) *Handler {
	return &Handler{ctx: ctx, g: g, sessions: sessions}
}

// Handle registers the bot routes.
func Handle(bot *tele.Bot, h *Handler) {
	bot.Handle("/start", func(c tele.Context) error {
		slog.Debug("GOT start", "chat", c.Chat().ID)
		return c.Send(helpText)
	})

	for _, cmd := range []string{"/settings", "/maxlen", "/n", "/temp", "/reset"} {
		bot.Handle(cmd, func(c tele.Context) error {
			return c.Send(h.Command(c.Chat().ID, cmd, c.Args()))
		})
	}

	bot.Handle(tele.OnText, func(c tele.Context) error {
		slog.Debug("GOT text", "chat", c.Chat().ID)
		return c.Send(h.Prompt(h.ctx, c.Chat().ID, c.Text()))
	})
}

// Command applies a settings command and returns the reply.
func (h *Handler) Command(id int64, cmd string, args []string) string {
	var fn generate.OptionFunc

	switch cmd {
	case "/settings":
		return describe(h.sessions.Get(id))

	case "/reset":
		h.sessions.Reset(id)
		return "options reset\n" + describe(h.sessions.Get(id))

	case "/maxlen", "/n":
		if len(args) != 1 {
			return fmt.Sprintf("usage: %s N", cmd)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Sprintf("%s expects an integer, got %q", cmd, args[0])
		}
		if cmd == "/maxlen" {
			fn = generate.WithMaxLength(n)
		} else {
			fn = generate.WithNumReturnSequences(n)
		}

	case "/temp":
		if len(args) != 1 {
			return "usage: /temp F"
		}
		f, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Sprintf("/temp expects a number, got %q", args[0])
		}
		fn = generate.WithTemperature(f)

	default:
		return helpText
	}

	opts, err := h.sessions.Update(id, fn)
	if err != nil {
		return err.Error()
	}
	return describe(opts)
}

// Prompt generates with the chat options and returns the numbered list.
func (h *Handler) Prompt(ctx context.Context, id int64, text string) string {
	seqs, err := h.g.Generate(ctx, text, h.sessions.Get(id))
	switch {
	case errors.Is(err, generate.ErrEmptyPrompt), errors.Is(err, generate.ErrInvalidOptions):
		return err.Error()
	case err != nil:
		slog.Error("failed generate", "chat", id, "error", err)
		return "service unavailable"
	}
	return truncate(generate.Format(seqs), maxMessageRunes)
}

func describe(o generate.Options) string {
	return fmt.Sprintf("max length: %d\nsequences: %d\ntemperature: %.2f", o.MaxLength, o.NumReturnSequences, o.Temperature)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
