package engine

import "fmt"

// User-facing texts. The bot speaks Russian, matching its warehouse audience.
const (
	msgWelcome = "Добро пожаловать в Kambuka Storage Bot!\nВыберите действие:"
	msgMenu    = "Выберите действие из меню."

	// Main menu button labels; the engine recognizes them as actions.
	BtnSearch = "🔍 Найти товар"
	BtnAdd    = "➕ Добавить товар"

	// Affirmative token for confirmation steps. Anything else means "no".
	tokenYes = "да"

	msgAskQuery       = "Введите название товара для поиска:"
	msgNotFound       = "Ничего не найдено."
	msgLookupFailed   = "Склад сейчас недоступен, попробуйте позже."
	msgAskName        = "Введите Что (название товара):"
	msgAskNameAgain   = "Хорошо, введите название ещё раз:"
	msgAskLocation    = "Введите Место (например, A1_001):"
	msgAskDescription = "Введите Описание:"
	msgAdded          = "✅ Товар добавлен!"
	msgAddFailed      = "Не удалось сохранить товар, попробуйте позже."
	msgCancelled      = "Хорошо, отменено."
	msgEmptyList      = "Склад пуст."
)

func msgConfirmAdd(name string) string {
	return fmt.Sprintf("Добавить «%s» на склад? (да/нет)", name)
}

func msgConfirmName(name string) string {
	return fmt.Sprintf("Название товара — «%s», верно? (да/нет)", name)
}

func msgRecordCard(location, name, description string) string {
	return fmt.Sprintf("📦 %s\n📍 %s\n📝 %s", name, location, description)
}
