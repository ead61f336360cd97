package session

import "github.com/alexivanou/geocity-weather/internal/model"

// NoticeKind classifies user-visible failure notices
type NoticeKind string

const (
	NoticeWeatherFailure         NoticeKind = "weather_failure"
	NoticeGeolocationUnsupported NoticeKind = "geolocation_unsupported"
	NoticeGeolocationDenied      NoticeKind = "geolocation_denied"
)

// Notice is a human-readable failure shown by the display surface
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Display is the rendering surface a session drives. Calls arrive in state
// order and must not call back into the session.
type Display interface {
	ShowCandidates(candidates []model.Candidate, cursor int)
	ShowWeather(record model.WeatherRecord)
	ShowNotice(notice Notice)
	ShowBusy(busy bool)
}
