package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/student_records/internal/controller/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Сколько ближайших платежей показывать в /dues
const duesLimit = 20

const helpText = "📚 Commands:\n\n" +
	"/summary - Fee ledger summary\n" +
	"/dues - Upcoming fee dues\n" +
	"/batch <batch_id> - Active students of a batch\n" +
	"/rank <test_id> <user_id> - Student rank in a test\n" +
	"/stats <test_id> - Test statistics\n" +
	"/help - Show this help"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "there"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Hi, %s!\n\nThis bot answers staff questions about batches, fees and test results.\n\n%s",
		name, helpText,
	))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleSummary обрабатывает команду /summary
func (h *Handlers) HandleSummary(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	summary, err := h.records.FeeSummary(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.Summary(summary))
}

// HandleDues обрабатывает команду /dues
func (h *Handlers) HandleDues(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	dues, err := h.records.UpcomingDues(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.Dues(dues, duesLimit))
}

// HandleBatch обрабатывает команду /batch <batch_id>
func (h *Handlers) HandleBatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseArgs(update.Message.Text, 1)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Usage: /batch <batch_id>")
		return
	}

	students, err := h.records.ListStudentsByBatch(ctx, args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.Batch(args[0], students))
}

// HandleRank обрабатывает команду /rank <test_id> <user_id>
func (h *Handlers) HandleRank(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseArgs(update.Message.Text, 2)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Usage: /rank <test_id> <user_id>")
		return
	}

	rank, err := h.records.Rank(ctx, args[0], args[1])
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.Rank(rank))
}

// HandleStats обрабатывает команду /stats <test_id>
func (h *Handlers) HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireStaff(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseArgs(update.Message.Text, 1)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Usage: /stats <test_id>")
		return
	}

	stats, err := h.records.Statistics(ctx, args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.Statistics(stats))
}

// parseArgs разбирает ровно n числовых аргументов после команды
func parseArgs(text string, n int) ([]int64, error) {
	fields := strings.Fields(text)
	if len(fields) != n+1 {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(fields)-1)
	}

	args := make([]int64, 0, n)
	for _, f := range fields[1:] {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse argument %q: %w", f, err)
		}
		args = append(args, v)
	}
	return args, nil
}
