package controller

import (
	"context"

	"github.com/Freeeeeet/student_records/internal/controller/handlers"
	"github.com/Freeeeeet/student_records/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	records *service.RecordService,
	staffIDs []int64,
	logger *zap.Logger,
) *BotController {
	if len(staffIDs) == 0 {
		logger.Warn("TELEGRAM_ADMIN_IDS is empty, staff commands will be rejected")
	}

	return &BotController{
		bot:      botInstance,
		handlers: handlers.NewHandlers(records, staffIDs, logger),
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)

	// Команды сотрудников
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/summary", bot.MatchTypeExact, c.handlers.HandleSummary)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/dues", bot.MatchTypeExact, c.handlers.HandleDues)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/batch", bot.MatchTypePrefix, c.handlers.HandleBatch)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/rank", bot.MatchTypePrefix, c.handlers.HandleRank)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, c.handlers.HandleStats)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "summary", Description: "💰 Fee ledger summary"},
		{Command: "dues", Description: "📅 Upcoming fee dues"},
		{Command: "batch", Description: "👥 Students of a batch"},
		{Command: "rank", Description: "🏆 Student rank in a test"},
		{Command: "stats", Description: "📊 Test statistics"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Notify рассылает текст всем сотрудникам
func (c *BotController) Notify(ctx context.Context, staffIDs []int64, text string) {
	for _, chatID := range staffIDs {
		_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
		if err != nil {
			c.logger.Error("Failed to notify staff", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
