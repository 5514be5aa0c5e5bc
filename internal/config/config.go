package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress   string
	DataDir       string
	DhenuKey      string
	DhenuBaseURL  string
	DhenuModelID  string
	SarvamKey     string
	SarvamBaseURL string
}

// Load reads environment variables and returns Config with sane defaults.
// The two API keys are mandatory: without either no turn can complete, so a
// missing key fails startup instead of every call.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	dhenuKey := os.Getenv("DHENU_API_KEY")
	if dhenuKey == "" {
		log.Fatal("DHENU_API_KEY not set - chat completions cannot work")
	}

	sarvamKey := os.Getenv("SARVAM_API_KEY")
	if sarvamKey == "" {
		log.Fatal("SARVAM_API_KEY not set - speech services cannot work")
	}

	dhenuBase := os.Getenv("DHENU_BASE_URL")
	if dhenuBase == "" {
		dhenuBase = "https://api.dhenu.ai/v1"
	}

	dhenuModel := os.Getenv("DHENU_MODEL_ID")
	if dhenuModel == "" {
		dhenuModel = "dhenu2-in-8b-preview"
	}

	sarvamBase := os.Getenv("SARVAM_BASE_URL")
	if sarvamBase == "" {
		sarvamBase = "https://api.sarvam.ai"
	}

	log.Printf("config: HTTP_ADDRESS=%s DATA_DIR=%s", addr, dataDir)
	return Config{
		HTTPAddress:   addr,
		DataDir:       dataDir,
		DhenuKey:      dhenuKey,
		DhenuBaseURL:  dhenuBase,
		DhenuModelID:  dhenuModel,
		SarvamKey:     sarvamKey,
		SarvamBaseURL: sarvamBase,
	}
}
