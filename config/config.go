package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Storage      Storage
	Upload       Upload
	GeminiApiKey string
	GeminiModel  string
	AITimeoutSec int
	Institution  string
	TermLabel    string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Storage struct {
	MediaRoot string
}

type Upload struct {
	MaxFileSize int64
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("MEDIA_ROOT", "./media")
	viper.SetDefault("AI_TIMEOUT_SECONDS", 60)
	viper.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024)
	viper.SetDefault("INSTITUTION_NAME", "State University")
	viper.SetDefault("TERM_LABEL", "1st Semester, A.Y. 2025-2026")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Storage.MediaRoot = viper.GetString("MEDIA_ROOT")
	config.Upload.MaxFileSize = viper.GetInt64("MAX_UPLOAD_SIZE")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.GeminiModel = viper.GetString("GEMINI_MODEL")
	config.AITimeoutSec = viper.GetInt("AI_TIMEOUT_SECONDS")
	config.Institution = viper.GetString("INSTITUTION_NAME")
	config.TermLabel = viper.GetString("TERM_LABEL")

	log.Info().Str("port", config.Server.Port).Str("model", config.GeminiModel).Msg("Config loaded")
	return &config, nil
}
