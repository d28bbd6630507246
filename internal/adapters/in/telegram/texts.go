package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fulfillment/internal/core/domain/services"
)

// Reply keyboard captions. Incoming texts are matched against them verbatim.
const (
	ButtonSharePhone      = "📱 Telefon raqamni ulashish"
	ButtonPlaceOrder      = "🛒 Buyurtma berish"
	ButtonMyOrders        = "📦 Mening buyurtmalarim"
	ButtonOrderHistory    = "📊 Buyurtmalar tarixi"
	ButtonActiveDelivery  = "📦 Faol buyurtmalar"
	ButtonDoneDelivery    = "✅ Tugallangan buyurtmalar"
	ButtonStats           = "📊 Statistika"
	ButtonOpenShop        = "🛒 Do'konni ochish"
	CommandStats          = "/stats"
	CommandCourierOrders  = "/my_orders"
	textOwnContactOnly    = "❌ Iltimos, o'z telefon raqamingizni ulashing."
	textSharePhoneFirst   = "❌ Iltimos, avval telefon raqamingizni ulashing.\n\n/start buyrug'ini yuboring."
	textStaffSharePhone   = "❌ Siz tizimda ro'yxatdan o'tmagansiz.\n\n📱 Telefon raqamingizni ulashing, so'ng admin sizga rol beradi."
	textAwaitingRole      = "✅ Telefon raqamingiz saqlandi.\n\nAdmin sizga rol berganidan so'ng botdan foydalanishingiz mumkin."
	textOpenShop          = "🛍️ Buyurtma berish\n\nQuyidagi tugmani bosib do'konni oching:"
	textNoActiveOrders    = "📭 Faol buyurtmalar yo'q\n\nHozirda sizda faol buyurtmalar mavjud emas.\n\n🛒 Buyurtma berish uchun \"Buyurtma berish\" tugmasini bosing!"
	textNoOrderHistory    = "📭 Buyurtmalar tarixi bo'sh\n\nSiz hali hech qanday buyurtma bermagansiz.\n\n🛒 Buyurtma berish uchun \"Buyurtma berish\" tugmasini bosing!"
	textNoCourierOrders   = "📭 Hozirda faol buyurtmalar yo'q."
	textNoCompletedOrders = "📭 Tugallangan buyurtmalar yo'q."
	textWelcomePrefix     = "👋 Xush kelibsiz, %s!\n\n"
)

var roleWelcomes = map[services.Channel]string{
	services.ChannelClient: "🛒 Bizning bot orqali:\n" +
		"✅ Mahsulotlarni ko'rishingiz\n" +
		"✅ Savatga qo'shishingiz\n" +
		"✅ Buyurtma berishingiz\n" +
		"✅ Buyurtma holatini kuzatishingiz mumkin\n\n" +
		"💡 Pastdagi tugmalardan foydalaning!",
	services.ChannelAdmin: "👨‍💼 Siz ADMIN sifatida tizimga kirdingiz.\n\n" +
		"📋 Bu bot orqali:\n" +
		"✅ Barcha buyurtmalarni kuzatishingiz\n" +
		"✅ Tizim statistikasini ko'rishingiz mumkin\n\n" +
		"📊 Buyruqlar:\n" +
		"/start - Botni qayta ishga tushirish\n" +
		"/stats - Tizim statistikasi\n\n" +
		"ℹ️ Yangi buyurtmalar haqida avtomatik xabarlar olasiz.",
	services.ChannelReceiver: "📋 Siz BUYURTMA QABUL QILUVCHI sifatida ishga kirdingiz.\n\n" +
		"🔔 Qanday ishlaydi:\n" +
		"• Yangi buyurtma kelganda sizga xabar keladi\n" +
		"• \"✅ Tasdiqlash\" tugmasini bosing - buyurtma qabul qilinadi\n" +
		"• \"❌ Bekor qilish\" tugmasini bosing - buyurtma bekor qilinadi\n\n" +
		"⏳ Yangi buyurtmalar kutilmoqda...",
	services.ChannelPicker: "📦 Siz BUYURTMA YIG'UVCHI sifatida ishga kirdingiz.\n\n" +
		"🔔 Qanday ishlaydi:\n" +
		"• Buyurtma qabul qilinganda sizga xabar keladi\n" +
		"• \"🔄 Yig'ishni boshlash\" tugmasini bosing\n" +
		"• Mahsulotlarni yig'ing\n" +
		"• \"✅ Yig'ishni yakunlash\" tugmasini bosing\n\n" +
		"⏳ Yig'ish uchun buyurtmalar kutilmoqda...",
	services.ChannelCourier: "🚚 Siz KURYER sifatida ishga kirdingiz.\n\n" +
		"🔔 Qanday ishlaydi:\n" +
		"• Buyurtma tayyor bo'lganda sizga xabar keladi\n" +
		"• \"🚚 Dostavkani boshlash\" tugmasini bosing\n" +
		"• Mijozga yetkazib bering\n" +
		"• \"✅ Dostavkani yakunlash\" tugmasini bosing\n\n" +
		"💡 Pastdagi tugmalardan foydalaning!",
}

var roleDenials = map[services.Channel]string{
	services.ChannelAdmin:    "❌ Sizda admin huquqi yo'q.\n\nBu bot faqat adminlar uchun.",
	services.ChannelReceiver: "❌ Sizda buyurtmalarni qabul qilish huquqi yo'q.\n\nBu bot faqat buyurtma qabul qiluvchilar uchun.",
	services.ChannelPicker:   "❌ Sizda buyurtmalarni yig'ish huquqi yo'q.\n\nBu bot faqat yig'uvchilar uchun.",
	services.ChannelCourier:  "❌ Sizda buyurtmalarni yetkazish huquqi yo'q.\n\nBu bot faqat kuryerlar uchun.",
}

func welcomeText(channel services.Channel, name string) string {
	return fmt.Sprintf(textWelcomePrefix, name) + roleWelcomes[channel]
}

func greetingText(name string) string {
	return fmt.Sprintf("👋 Salom, %s!\n\n📱 Ro'yxatdan o'tish uchun telefon raqamingizni ulashing.\n\nQuyidagi tugmani bosing:", name)
}

func registeredText(name, phone string, created bool) string {
	if created {
		return fmt.Sprintf("✅ Muvaffaqiyatli ro'yxatdan o'tdingiz!\n\n👤 Ism: %s\n📱 Telefon: %s\n\n🛒 Pastdagi tugmalardan foydalaning!", name, phone)
	}
	return fmt.Sprintf("✅ Ma'lumotlaringiz yangilandi!\n\n👤 Ism: %s\n📱 Telefon: %s", name, phone)
}

func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(ButtonSharePhone)))
	kb.OneTimeKeyboard = true
	return kb
}

// menuKeyboard returns the persistent reply keyboard of a channel, or nil when
// the channel works through commands only.
func menuKeyboard(channel services.Channel) *tgbotapi.ReplyKeyboardMarkup {
	var kb tgbotapi.ReplyKeyboardMarkup
	switch channel {
	case services.ChannelClient:
		kb = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonPlaceOrder)),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(ButtonMyOrders),
				tgbotapi.NewKeyboardButton(ButtonOrderHistory),
			),
		)
	case services.ChannelCourier:
		kb = tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonActiveDelivery),
			tgbotapi.NewKeyboardButton(ButtonDoneDelivery),
		))
	case services.ChannelAdmin:
		kb = tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonStats)))
	default:
		return nil
	}
	return &kb
}
