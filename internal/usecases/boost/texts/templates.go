package texts

import "fmt"

// Тексты бота. Terms намеренно на английском - требование площадки
// к платным ботам, остальное на русском.

const (
	Welcome = "👋 Привет! Это бот Pin.\n\n" +
		"⭐ /sendstars - купить Boost за Telegram Stars\n" +
		"📄 /terms - условия использования\n" +
		"🆘 /support - поддержка"

	WelcomeWithReferral = "👋 Привет! Ты пришёл по приглашению.\n\n" +
		"⭐ /sendstars - купить Boost за Telegram Stars\n" +
		"📄 /terms - условия использования\n" +
		"🆘 /support - поддержка"

	Terms = "📄 Terms of Use:\n\n" +
		"1. This service is paid and requires Telegram Stars for activation.\n" +
		"2. Payments are processed exclusively via Telegram Stars (XTR).\n" +
		"3. By making a payment, you agree to activate the Boost service for your account.\n" +
		"4. All digital goods are non-refundable.\n" +
		"5. For support, contact us via /support."

	Support = "🆘 @pin_support"

	InvoiceFailed = "❌ Не удалось создать инвойс."

	BoostActivated = "✅ Boost активирован! Спасибо за оплату."

	DonateThanks = "✅ Спасибо за поддержку проекта!"

	EnergyApplied = "✅ Энергия пополнена до максимума!"

	PaymentGrantFailed = "⚠️ Оплата прошла, но не смогли обновить статус. Напишите в поддержку: @pin_support"

	UnknownText = "Не понимаю. Посмотри /start - там список команд."
)

// FormatUnknownCommand форматирует сообщение о неизвестной команде
func FormatUnknownCommand(command string) string {
	return fmt.Sprintf("Неизвестная команда: /%s\n\nСписок команд - /start", command)
}

// FormatStatus форматирует сводку по аккаунту для /status
func FormatStatus(boost bool, donate int, bonusStars int, clickerEnergy int, friendsCount int) string {
	boostLine := "выключен"
	if boost {
		boostLine = "активен ✅"
	}
	return fmt.Sprintf("📊 Твой статус:\n\n"+
		"🚀 Boost: %s\n"+
		"💝 Донатов: %d\n"+
		"⭐ Бонусных звёзд: %d\n"+
		"⚡ Энергия: %d\n"+
		"👥 Приглашено друзей: %d",
		boostLine, donate, bonusStars, clickerEnergy, friendsCount)
}
