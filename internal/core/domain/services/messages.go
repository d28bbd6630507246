package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/order"
)

const (
	HeaderNewOrder        = "🆕 Yangi buyurtma!"
	HeaderForPicking      = "📦 Yangi buyurtma yig'ish uchun!"
	HeaderForDelivery     = "🚚 Yangi buyurtma dostavka uchun!"
	HeaderPickingStarted  = "📦 Buyurtmani yig'ing"
	HeaderDeliveryStarted = "🚚 Buyurtmani yetkazing"

	TextGenericError  = "❌ Xatolik yuz berdi. Iltimos, qayta urinib ko'ring."
	TextDenied        = "❌ Sizda bu amalni bajarish huquqi yo'q"
	TextNotRegistered = "❌ Siz tizimda ro'yxatdan o'tmagansiz.\n\nIltimos, admin bilan bog'laning."
	TextStaleAction   = "⚠️ Bu buyurtma allaqachon boshqa holatda."
	TextNotFound      = "❌ Buyurtma topilmadi"
	TextCallbackError = "❌ Xatolik yuz berdi"

	ValueMissing   = "N/A"
	ProductUnknown = "Mahsulot"
)

var clientStatusTexts = map[order.Status]string{
	order.Pending:          "🕐 Buyurtmangiz qabul qilinishini kutmoqda.\n\n📦 Buyurtma ID: #%d",
	order.Accepted:         "✅ Buyurtmangiz qabul qilindi!\n\n📦 Buyurtma ID: #%d\n\nBuyurtmangiz hozir tayyorlanmoqda.",
	order.Preparing:        "📦 Buyurtmangiz yig'ilmoqda!\n\n📦 Buyurtma ID: #%d\n\nTez orada tayyor bo'ladi.",
	order.ReadyForDelivery: "✅ Buyurtmangiz tayyor!\n\n📦 Buyurtma ID: #%d\n\nYaqin orada yetkazib beriladi.",
	order.Shipping:         "🚚 Buyurtmangiz yo'lda!\n\n📦 Buyurtma ID: #%d\n\nKuryerimiz sizga yetib keladi.",
	order.Completed:        "🎉 Buyurtmangiz yakunlandi!\n\n📦 Buyurtma ID: #%d\n\nXaridingiz uchun rahmat!",
	order.Cancelled:        "❌ Buyurtmangiz bekor qilindi!\n\n📦 Buyurtma ID: #%d\n\nQo'shimcha ma'lumot uchun bog'laning.",
}

// ClientStatusText is the status message the order's client receives.
func ClientStatusText(status order.Status, orderID int64) string {
	format, ok := clientStatusTexts[status]
	if !ok {
		return fmt.Sprintf("📦 Buyurtma ID: #%d\n\nHolat: %s", orderID, status)
	}
	return fmt.Sprintf(format, orderID)
}

var statusLabels = map[order.Status]string{
	order.Pending:          "🕐 Kutilmoqda",
	order.Accepted:         "✅ Qabul qilindi",
	order.Preparing:        "📦 Yig'ilmoqda",
	order.ReadyForDelivery: "📦 Tayyor",
	order.Shipping:         "🚚 Yo'lda",
	order.Completed:        "🎉 Yakunlandi",
	order.Cancelled:        "❌ Bekor qilindi",
}

// StatusLabel is the short status caption used in order lists.
func StatusLabel(status order.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status.String()
}

var actionButtons = map[order.ActionKind]string{
	order.ActionAccept:           "✅ Tasdiqlash",
	order.ActionCancel:           "❌ Bekor qilish",
	order.ActionStartPicking:     "🔄 Yig'ishni boshlash",
	order.ActionFinishPicking:    "✅ Yig'ishni yakunlash",
	order.ActionStartDelivery:    "🚚 Dostavkani boshlash",
	order.ActionCompleteDelivery: "✅ Dostavkani yakunlash",
}

func ActionButtonLabel(kind order.ActionKind) string {
	return actionButtons[kind]
}

var actionAnswers = map[order.ActionKind]string{
	order.ActionAccept:           "✅ Buyurtma qabul qilindi",
	order.ActionCancel:           "❌ Buyurtma bekor qilindi",
	order.ActionStartPicking:     "✅ Yig'ish boshlandi",
	order.ActionFinishPicking:    "✅ Yig'ish yakunlandi",
	order.ActionStartDelivery:    "✅ Dostavka boshlandi",
	order.ActionCompleteDelivery: "✅ Buyurtma yakunlandi",
}

// ActionAnswer is the short toast shown on the pressed button.
func ActionAnswer(kind order.ActionKind) string {
	return actionAnswers[kind]
}

var actionConfirmations = map[order.ActionKind]string{
	order.ActionAccept:           "✅ Buyurtma #%d qabul qilindi va yig'uvchilarga yuborildi.",
	order.ActionCancel:           "❌ Buyurtma #%d bekor qilindi.",
	order.ActionStartPicking:     "🔄 Buyurtma #%d yig'ish boshlandi.",
	order.ActionFinishPicking:    "✅ Buyurtma #%d yig'ildi va dostavka uchun tayyor!",
	order.ActionStartDelivery:    "🚚 Buyurtma #%d dostavkasi boshlandi.",
	order.ActionCompleteDelivery: "🎉 Buyurtma #%d muvaffaqiyatli yetkazildi!",
}

// ActionConfirmation is sent to the acting principal after a successful transition.
func ActionConfirmation(kind order.ActionKind, orderID int64) string {
	return fmt.Sprintf(actionConfirmations[kind], orderID)
}
