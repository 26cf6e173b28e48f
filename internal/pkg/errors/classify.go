package errors

import "strings"

// classifyText - fallback-эвристика для ошибок без структурного Kind'а:
// подстрочный матчинг по тексту, как делал мобильный клиент. Используется
// только когда коллаборатор вернул непомеченную ошибку.
func classifyText(err error) Kind {
	if err == nil {
		return KindInternal
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return KindTimeout
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection refused"):
		return KindNetwork
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "auth"):
		return KindAuth
	default:
		return KindInternal
	}
}

// userMessages - тотальное отображение категории в сообщение пользователю
var userMessages = map[Kind]string{
	KindNetwork: "Network connection failed. Please check your internet connection and try again.",
	KindTimeout: "Request timed out. Please check your internet speed and try again.",
	KindAuth:    "Authentication error. Please log out and log in again.",
}

// UserMessage возвращает человекочитаемое сообщение для ошибки submit'а.
// Для категорий без специального текста показывается исходное сообщение.
func UserMessage(err error) string {
	if msg, ok := userMessages[KindOf(err)]; ok {
		return msg
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
