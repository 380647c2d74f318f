package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/remna-admin-bot/internal/conversation"
)

// MaxMessageText — предел Telegram на длину текста сообщения.
const MaxMessageText = 4096

// keyboard строит inline-клавиатуру. Кнопка, которую нельзя упаковать, пропускается.
func keyboard(e conversation.Effect) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range e.Buttons {
		var row []tgbotapi.InlineKeyboardButton
		for _, b := range r {
			data, err := EncodeCallback(b.Selection)
			if err != nil {
				log.WithField("component", "render").WithError(err).Warn("Кнопка пропущена")
				continue
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Label, data))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func clip(text string) string {
	r := []rune(text)
	if len(r) <= MaxMessageText {
		return text
	}
	return string(r[:MaxMessageText-1]) + "…"
}

// newMessage — ответ на текст: новое сообщение.
func newMessage(chatID int64, e conversation.Effect) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, clip(e.Text))
	if kb := keyboard(e); kb != nil {
		msg.ReplyMarkup = *kb
	}
	return msg
}

// editMessage — ответ на нажатие: правим сообщение с кнопкой.
func editMessage(chatID int64, messageID int, e conversation.Effect) tgbotapi.EditMessageTextConfig {
	kb := keyboard(e)
	if kb == nil {
		return tgbotapi.NewEditMessageText(chatID, messageID, clip(e.Text))
	}
	return tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, clip(e.Text), *kb)
}
