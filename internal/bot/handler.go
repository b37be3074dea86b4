package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"bkds/internal/domain"
	"bkds/internal/insight"
)

// feedPageSize is the number of insights listed per /feed reply.
const feedPageSize = 10

// FeedSource provides paginated insight feeds.
type FeedSource interface {
	Feed(ctx context.Context, category string, page, limit int) ([]domain.DisplayInsight, error)
}

// SearchRecorder stores searches typed into the chat.
type SearchRecorder interface {
	SaveVoiceSearch(ctx context.Context, searchString, clientTimestamp string) (domain.VoiceSearch, error)
}

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot      *tgbot.Bot
	feeds    FeedSource
	searches SearchRecorder
	log      logrus.FieldLogger
}

// NewHandler creates a new bot handler instance.
func NewHandler(token string, feeds FeedSource, searches SearchRecorder, logger logrus.FieldLogger) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	h := &Handler{
		feeds:    feeds,
		searches: searches,
		log:      log,
	}

	b, err := tgbot.New(token, tgbot.WithDefaultHandler(h.defaultHandler))
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b

	h.registerHandlers()

	log.Info("Telegram bot handler initialized")
	return h, nil
}

// registerHandlers sets up the command handlers.
func (h *Handler) registerHandlers() {
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, h.startHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/feed", tgbot.MatchTypePrefix, h.feedHandler)
	h.log.Info("Registered /start and /feed command handlers")
}

// Start begins polling for updates from Telegram.
// This function blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

func (h *Handler) reply(ctx context.Context, b *tgbot.Bot, update *models.Update, text string, log logrus.FieldLogger) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
	if err != nil {
		log.WithError(err).Error("Failed to send message")
	}
}

// startHandler handles the /start command.
func (h *Handler) startHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	log := h.log.WithFields(logrus.Fields{
		"chat_id": update.Message.Chat.ID,
		"command": "/start",
	})
	log.Info("Received /start command")

	h.reply(ctx, b, update, "Welcome to BKDS! Use /feed [category] [page] to browse insights, or send me anything to save it as a search.", log)
}

// feedHandler lists one page of insight titles.
func (h *Handler) feedHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	category, page := parseFeedArgs(update.Message.Text)
	log := h.log.WithFields(logrus.Fields{
		"chat_id":  update.Message.Chat.ID,
		"command":  "/feed",
		"category": category,
		"page":     page,
	})
	log.Info("Received /feed command")

	items, err := h.feeds.Feed(ctx, category, page, feedPageSize)
	if err != nil {
		log.WithError(err).Warn("Failed to load feed")
		h.reply(ctx, b, update, "Sorry, that feed is not available right now.", log)
		return
	}
	h.reply(ctx, b, update, formatFeed(category, page, items), log)
}

func (h *Handler) defaultHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		return
	}
	log := h.log.WithField("chat_id", update.Message.Chat.ID)

	ts := strconv.Itoa(update.Message.Date)
	vs, err := h.searches.SaveVoiceSearch(ctx, update.Message.Text, ts)
	if err != nil {
		log.WithError(err).Error("Failed to save search from chat")
		h.reply(ctx, b, update, "Sorry, I could not save that search.", log)
		return
	}
	h.reply(ctx, b, update, fmt.Sprintf("Saved search %q.", vs.SearchString), log)
}

// parseFeedArgs reads "/feed [category] [page]". A lone numeric argument is
// taken as the page of the default feed.
func parseFeedArgs(text string) (category string, page int) {
	category, page = insight.DefaultCategory, 1
	fields := strings.Fields(text)
	if len(fields) > 0 {
		fields = fields[1:]
	}
	if len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			if n > 0 {
				page = n
			}
			return category, page
		}
		category = fields[0]
		fields = fields[1:]
	}
	if len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil && n > 0 {
			page = n
		}
	}
	return category, page
}

func formatFeed(category string, page int, items []domain.DisplayInsight) string {
	if len(items) == 0 {
		return fmt.Sprintf("No insights in %s on page %d.", category, page)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, page %d:\n", category, page)
	for i, it := range items {
		fmt.Fprintf(&sb, "%d. %s", (page-1)*feedPageSize+i+1, it.SubjectTitle)
		if it.DataCategory != "" && it.DataCategory != insight.MissingCategory {
			fmt.Fprintf(&sb, " (%s)", it.DataCategory)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
