package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Heroine struct {
		Name          string `yaml:"name"`
		PlayerName    string `yaml:"player_name"`
		PersonaPrompt string `yaml:"persona_prompt"`
	} `yaml:"heroine"`
	Gameplay struct {
		EnableExplicitMode bool   `yaml:"enable_explicit_mode"`
		AllowPureMode      bool   `yaml:"allow_pure_mode"`
		ExplicitIntensity  string `yaml:"explicit_intensity"`
		EnableAIBehavior   bool   `yaml:"enable_ai_behavior"`
		StatusCardImage    bool   `yaml:"status_card_image"`
	} `yaml:"gameplay"`
	Environment struct {
		Timezone              string `yaml:"timezone"`
		WeatherLocation       string `yaml:"weather_location"`
		WeatherRefreshMinutes int    `yaml:"weather_refresh_minutes"`
	} `yaml:"environment"`
	ModelSettings struct {
		Model       string  `yaml:"model"`
		BaseURL     string  `yaml:"base_url"`
		ImageModel  string  `yaml:"image_model"`
		Temperature float64 `yaml:"temperature"`
		TopP        float64 `yaml:"top_p"`
	} `yaml:"model_settings"`
	StateFile string `yaml:"state_file"`
}

func defaults() *Config {
	config := &Config{}
	config.Heroine.Name = "Lianlian"
	config.Gameplay.ExplicitIntensity = "soft"
	config.Gameplay.EnableAIBehavior = true
	config.Environment.Timezone = "Asia/Shanghai"
	config.Environment.WeatherLocation = "Shanghai"
	config.Environment.WeatherRefreshMinutes = 60
	config.ModelSettings.Model = "gpt-4o-mini"
	config.ModelSettings.ImageModel = "gpt-image-1"
	config.ModelSettings.Temperature = 1
	config.ModelSettings.TopP = 1
	config.StateFile = "data/state.json"
	return config
}

// LoadConfig reads the yaml config file. A missing file yields the default
// configuration; a present file is applied on top of the defaults so
// omitted keys keep sensible values.
func LoadConfig(path string) (*Config, error) {
	config := defaults()

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	if config.Environment.WeatherRefreshMinutes < 10 {
		config.Environment.WeatherRefreshMinutes = 10
	}
	return config, nil
}
