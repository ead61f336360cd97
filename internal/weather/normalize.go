package weather

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/owm"
)

const (
	DefaultIconURL = "https://openweathermap.org/img/wn/%s@2x.png"

	clockLayout = "15:04"
	dateLayout  = "Mon, 02 Jan 2006"
)

// Normalize maps a current-weather response onto a display record.
// place overrides the response name when non-empty.
func Normalize(cur *owm.Current, iconURL, place string) (model.WeatherRecord, error) {
	if cur == nil || cur.Main == nil {
		return model.WeatherRecord{}, fmt.Errorf("%w: missing main block", ErrMalformed)
	}
	if len(cur.Weather) == 0 {
		return model.WeatherRecord{}, fmt.Errorf("%w: empty conditions", ErrMalformed)
	}
	if iconURL == "" {
		iconURL = DefaultIconURL
	}
	if place == "" {
		place = cur.Name
	}

	var wind float64
	if cur.Wind != nil {
		wind = cur.Wind.Speed
	}

	cond := cur.Weather[0]
	local := LocalInstant(cur.Dt, cur.Timezone)

	return model.WeatherRecord{
		Place:      place,
		TempC:      RoundHalfUp(cur.Main.Temp),
		FeelsLikeC: RoundHalfUp(cur.Main.FeelsLike),
		Condition:  cond.Description,
		Icon:       fmt.Sprintf(iconURL, cond.Icon),
		Wind:       wind,
		WindLabel:  fmt.Sprintf("%v kph", wind),
		Humidity:   cur.Main.Humidity,
		LocalTime:  local.Format(clockLayout),
		LocalDate:  local.Format(dateLayout),
		Category:   CategoryOf(cond.Description),
	}, nil
}

// RoundHalfUp rounds to the nearest integer, ties toward +Inf
func RoundHalfUp(v float64) int {
	f := math.Floor(v)
	if v-f >= 0.5 {
		f++
	}
	return int(f)
}

// LocalInstant shifts the event timestamp by the place's UTC offset and
// returns it in UTC, so formatting reads as the place's wall clock.
func LocalInstant(dt, offsetSeconds int64) time.Time {
	return time.Unix(dt+offsetSeconds, 0).UTC()
}

// CategoryOf derives the theming hint from condition text
func CategoryOf(condition string) model.Category {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "cloud"):
		return model.CategoryCloudy
	case strings.Contains(c, "rain"):
		return model.CategoryRainy
	default:
		return model.CategoryOther
	}
}

// CoordinateLabel is the place label used when the endpoint names no place
func CoordinateLabel(lat, lon float64) string {
	return fmt.Sprintf("Lat %.2f, Lon %.2f", lat, lon)
}
