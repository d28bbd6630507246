package cmd

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/services"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ClientBotToken   string
	AdminBotToken    string
	ReceiverBotToken string
	PickerBotToken   string
	CourierBotToken  string
	WebAppURL        string

	YandexGeocoderAPIKey string
	NominatimURL         string
	GeocoderTimeout      time.Duration

	KafkaBrokers          string
	KafkaOrderStatusTopic string

	AdminReportCron string
	LogLevel        string
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// BotTokens maps every channel to its token. An empty token disables the channel.
func (c Config) BotTokens() map[services.Channel]string {
	return map[services.Channel]string{
		services.ChannelClient:   c.ClientBotToken,
		services.ChannelAdmin:    c.AdminBotToken,
		services.ChannelReceiver: c.ReceiverBotToken,
		services.ChannelPicker:   c.PickerBotToken,
		services.ChannelCourier:  c.CourierBotToken,
	}
}
