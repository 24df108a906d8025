package environment

import "context"

// Service bundles the clock and weather lookups into the one-line brief the
// AI engine embeds in its prompts. It satisfies gal.EnvironmentBriefer.
type Service struct {
	clock    *Clock
	weather  *Weather
	location string
}

func NewService(clock *Clock, weather *Weather, defaultLocation string) *Service {
	return &Service{clock: clock, weather: weather, location: defaultLocation}
}

// Brief never fails; weather trouble degrades inside the weather subsystem.
func (s *Service) Brief(ctx context.Context) string {
	brief := "local time " + s.clock.Summary()
	if s.weather != nil {
		brief += "; weather " + s.weather.Get(ctx, s.location).Brief()
	}
	return brief
}
