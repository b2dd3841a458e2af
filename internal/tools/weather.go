package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

const weatherSchema = `{
	"type": "object",
	"properties": {
		"city": {
			"type": "string",
			"enum": ["nyc", "sf"],
			"description": "City to get weather for"
		}
	},
	"required": ["city"]
}`

// Weather returns the built-in weather tool. It answers from a fixed table
// keyed by the city enum.
func Weather() Tool {
	return Tool{
		Name:        "get_weather",
		Description: "Get weather for a city.",
		Parameters:  json.RawMessage(weatherSchema),
		Handler:     getWeather,
	}
}

func getWeather(_ context.Context, args json.RawMessage) (string, error) {
	var params struct {
		City string `json:"city"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	if params.City == "nyc" {
		return "Cloudy in NYC", nil
	}
	return "Sunny in SF", nil
}
