package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"food-pick/config"
	"food-pick/lang"
	"food-pick/logger"
	"food-pick/metrics"
	"food-pick/models"
	"food-pick/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	throttleBurst = 5

	// userStateTTL is how long language and pending-situation state is kept
	// for a user who sends nothing.
	userStateTTL = 24 * time.Hour
)

// reply is what the bot sends back for one update.
type reply struct {
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

type Bot struct {
	api      *tgbotapi.BotAPI
	menus    *services.MenuService
	log      *logger.Logger
	throttle *throttle

	users     map[int64]*userState
	usersMu   sync.Mutex
	lastPrune time.Time
}

// userState is what the bot remembers about one user between updates.
type userState struct {
	lang      string
	situation models.Situation // picked with the first keyboard, waiting for the weather step
	lastSeen  time.Time
}

func New(cfg *config.Config, menus *services.MenuService, baseLog *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	b := newBot(menus, cfg.Telegram.RatePerMinute, baseLog)
	b.api = api
	return b, nil
}

func newBot(menus *services.MenuService, ratePerMinute int, baseLog *logger.Logger) *Bot {
	return &Bot{
		menus:    menus,
		log:      baseLog.With("component", "bot"),
		throttle: newThrottle(ratePerMinute, throttleBurst),
		users:    make(map[int64]*userState),
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "상황과 날씨로 메뉴 추천"},
			{Command: "recommend", Description: "조건으로 메뉴 추천"},
			{Command: "random", Description: "랜덤 메뉴"},
			{Command: "search", Description: "메뉴 검색"},
			{Command: "language", Description: "언어 변경 / Language"},
			{Command: "help", Description: "도움말"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

// Start long-polls Telegram until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.log.Warn("set bot commands failed", "error", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		metrics.BotUpdates.WithLabelValues("callback").Inc()
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.log.Warn("answer callback failed", "error", err)
		}
		if cq.Message == nil || cq.From == nil {
			return
		}
		userID := cq.From.ID
		b.deliver(cq.Message.Chat.ID, b.guarded(userID, func() reply {
			return b.handleCallback(ctx, userID, cq.Data)
		}))
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}
	metrics.BotUpdates.WithLabelValues("command").Inc()
	if msg.From.LanguageCode == lang.En {
		b.setLangIfUnset(msg.From.ID, lang.En)
	}
	userID := msg.From.ID
	b.deliver(msg.Chat.ID, b.guarded(userID, func() reply {
		return b.handleCommand(ctx, userID, text)
	}))
}

// guarded runs fn unless the user is over their rate limit.
func (b *Bot) guarded(userID int64, fn func() reply) reply {
	now := time.Now()
	b.pruneUsers(now)
	if wait := b.throttle.waitSeconds(userID, now); wait > 0 {
		metrics.BotUpdates.WithLabelValues("throttled").Inc()
		return reply{text: lang.T(b.getLang(userID), "rate_limited", wait)}
	}
	return fn()
}

func (b *Bot) deliver(chatID int64, r reply) {
	if r.text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, r.text)
	if r.keyboard != nil {
		msg.ReplyMarkup = *r.keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, userID int64, text string) reply {
	l := b.getLang(userID)
	cmd, args := splitCommand(text)

	switch cmd {
	case "/start":
		b.clearSession(userID)
		kb := situationKeyboard(l)
		return reply{text: lang.T(l, "welcome") + "\n\n" + lang.T(l, "choose_situation"), keyboard: &kb}
	case "/help":
		return reply{text: lang.T(l, "help")}
	case "/language":
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("한국어", "lang:"+lang.Ko),
				tgbotapi.NewInlineKeyboardButtonData("English", "lang:"+lang.En),
			),
		)
		return reply{text: lang.T(l, "choose_lang"), keyboard: &kb}
	case "/recommend":
		raw, err := parseRecommendArgs(args)
		if err != nil {
			return reply{text: lang.T(l, "bad_args", err.Error())}
		}
		criteria, err := services.CriteriaFromStrings(raw)
		if err != nil {
			return reply{text: lang.T(l, "bad_args", err.Error())}
		}
		return b.recommend(ctx, l, criteria)
	case "/random":
		n, err := parseCount(args)
		if err != nil {
			return reply{text: lang.T(l, "bad_args", err.Error())}
		}
		items, err := b.menus.Random(ctx, n)
		if err != nil {
			return b.failure(l, err)
		}
		return reply{text: formatList(l, lang.T(l, "random_header", len(items)), items)}
	case "/search":
		if args == "" {
			return reply{text: lang.T(l, "search_usage")}
		}
		items, err := b.menus.SearchByName(ctx, args)
		if err != nil {
			return b.failure(l, err)
		}
		return reply{text: formatList(l, lang.T(l, "search_header", args), items)}
	}
	return reply{}
}

func (b *Bot) handleCallback(ctx context.Context, userID int64, data string) reply {
	kind, value, _ := strings.Cut(data, ":")

	switch kind {
	case "lang":
		if !lang.Supported(value) {
			return reply{}
		}
		b.setLang(userID, value)
		return reply{text: lang.T(value, "lang_set")}
	case "sit":
		l := b.getLang(userID)
		b.setSession(userID, callbackSituation(value))
		kb := weatherKeyboard(l)
		return reply{text: lang.T(l, "choose_weather"), keyboard: &kb}
	case "wx":
		l := b.getLang(userID)
		criteria := services.Criteria{
			Situation: b.session(userID),
			Weather:   callbackWeather(value),
		}
		b.clearSession(userID)
		r := b.recommend(ctx, l, criteria)
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "again"), "again")),
		)
		r.keyboard = &kb
		return r
	case "again":
		l := b.getLang(userID)
		kb := situationKeyboard(l)
		return reply{text: lang.T(l, "choose_situation"), keyboard: &kb}
	}
	return reply{}
}

func (b *Bot) recommend(ctx context.Context, l string, c services.Criteria) reply {
	items, err := b.menus.Recommend(ctx, c)
	if err != nil {
		return b.failure(l, err)
	}
	header := lang.T(l, "results_header", situationLabel(l, c.Situation), weatherLabel(l, c.Weather))
	return reply{text: formatList(l, header, items)}
}

func (b *Bot) failure(l string, err error) reply {
	if !errors.Is(err, context.Canceled) {
		b.log.Error("bot request failed", "error", err)
	}
	return reply{text: lang.T(l, "error")}
}

// Keyboard buttons carry the variant's String(); "none" is not a synonym
// users can type, so it is mapped here.
func callbackSituation(v string) models.Situation {
	if v == models.SituationNone.String() {
		return models.SituationNone
	}
	return models.ParseSituation(v)
}

func callbackWeather(v string) models.Weather {
	if v == models.WeatherNone.String() {
		return models.WeatherNone
	}
	return models.ParseWeather(v)
}

func situationKeyboard(l string) tgbotapi.InlineKeyboardMarkup {
	btn := func(s models.Situation) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(situationLabel(l, s), "sit:"+s.String())
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(models.SituationAlone), btn(models.SituationDate)),
		tgbotapi.NewInlineKeyboardRow(btn(models.SituationFamily), btn(models.SituationGroup)),
		tgbotapi.NewInlineKeyboardRow(btn(models.SituationNone)),
	)
}

func weatherKeyboard(l string) tgbotapi.InlineKeyboardMarkup {
	btn := func(w models.Weather) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(weatherLabel(l, w), "wx:"+w.String())
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(models.WeatherHot), btn(models.WeatherCold)),
		tgbotapi.NewInlineKeyboardRow(btn(models.WeatherRainy), btn(models.WeatherSnowy)),
		tgbotapi.NewInlineKeyboardRow(btn(models.WeatherNone)),
	)
}

func (b *Bot) session(userID int64) models.Situation {
	b.usersMu.Lock()
	defer b.usersMu.Unlock()
	if u, ok := b.users[userID]; ok {
		return u.situation
	}
	return models.SituationNone
}

func (b *Bot) setSession(userID int64, s models.Situation) {
	b.usersMu.Lock()
	defer b.usersMu.Unlock()
	b.touch(userID).situation = s
}

func (b *Bot) clearSession(userID int64) {
	b.usersMu.Lock()
	defer b.usersMu.Unlock()
	if u, ok := b.users[userID]; ok {
		u.situation = models.SituationNone
	}
}

func (b *Bot) getLang(userID int64) string {
	b.usersMu.Lock()
	defer b.usersMu.Unlock()
	if u, ok := b.users[userID]; ok && u.lang != "" {
		return u.lang
	}
	return lang.Default
}

func (b *Bot) setLang(userID int64, l string) {
	b.usersMu.Lock()
	defer b.usersMu.Unlock()
	b.touch(userID).lang = l
}

func (b *Bot) setLangIfUnset(userID int64, l string) {
	b.usersMu.Lock()
	defer b.usersMu.Unlock()
	if u := b.touch(userID); u.lang == "" {
		u.lang = l
	}
}

// touch returns the state for userID, creating it if needed. Callers hold usersMu.
func (b *Bot) touch(userID int64) *userState {
	u, ok := b.users[userID]
	if !ok {
		u = &userState{}
		b.users[userID] = u
	}
	u.lastSeen = time.Now()
	return u
}

// pruneUsers drops users idle for userStateTTL. It sweeps at most once an hour.
func (b *Bot) pruneUsers(now time.Time) {
	b.usersMu.Lock()
	defer b.usersMu.Unlock()
	if now.Sub(b.lastPrune) < time.Hour {
		return
	}
	b.lastPrune = now
	for id, u := range b.users {
		if now.Sub(u.lastSeen) >= userStateTTL {
			delete(b.users, id)
		}
	}
}
