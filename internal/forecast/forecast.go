package forecast

import (
	"fmt"
	"math"

	"github.com/coc-ops/roombook-api/internal/models"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
)

// FeatureVector feeds the demand predictor: size, priority, the hour being
// scored, its end, the request's alternate window, a bias term, the alternate
// duration, the room capacity and the hour again.
type FeatureVector [10]float64

// PredictFn is the external demand model. The engine treats it as a black
// box from features to a demand estimate.
type PredictFn func(features FeatureVector) (float64, error)

// Engine averages predictions per opening hour across every request-room
// pair. Demand is defined independent of feasibility: oversized pairings
// still contribute, so every hour yields a defined number.
type Engine struct {
	openHour  int
	closeHour int
	predict   PredictFn
}

// New builds a forecast engine over the facility's opening hours.
func New(openHour, closeHour int, predict PredictFn) *Engine {
	if openHour == 0 && closeHour == 0 {
		openHour = int(models.DefaultOpenHour)
		closeHour = int(models.DefaultCloseHour)
	}
	if predict == nil {
		predict = BaselinePredictor
	}
	return &Engine{openHour: openHour, closeHour: closeHour, predict: predict}
}

// HourlyDemand returns expected demand keyed by hour start. Hours with no
// request-room pairs report zero demand.
func (e *Engine) HourlyDemand(requests []models.Request, rooms []models.Room) (map[int]float64, error) {
	result := make(map[int]float64, e.closeHour-e.openHour)
	for hour := e.openHour; hour < e.closeHour; hour++ {
		total := 0.0
		count := 0
		for _, req := range requests {
			for _, room := range rooms {
				features := buildFeatures(req, room, hour)
				demand, err := e.predict(features)
				if err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
						fmt.Sprintf("demand prediction failed for hour %d", hour))
				}
				if math.IsNaN(demand) || math.IsInf(demand, 0) {
					return nil, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("demand model returned non-finite value for hour %d", hour))
				}
				total += demand
				count++
			}
		}
		if count == 0 {
			result[hour] = 0
			continue
		}
		result[hour] = total / float64(count)
	}
	return result, nil
}

func buildFeatures(req models.Request, room models.Room, hour int) FeatureVector {
	h := float64(hour)
	return FeatureVector{
		float64(req.Size),
		float64(req.Priority),
		h,
		h + 1,
		req.Alternate.Start,
		req.Alternate.End,
		1,
		req.Alternate.Duration(),
		float64(room.Capacity),
		h,
	}
}

// BaselinePredictor is a deterministic stand-in for a trained model: demand
// grows with priority and size, rewards spare capacity, and peaks at midday.
func BaselinePredictor(f FeatureVector) (float64, error) {
	size := f[0]
	priority := f[1]
	hour := f[2]
	capacity := f[8]
	return 0.5*priority + 0.2*size + 0.1*(capacity-size) + 0.1*(12-math.Abs(hour-12)), nil
}

// PeakAndQuiet returns the busiest and quietest hours of a demand map.
// Ties resolve to the earlier hour.
func PeakAndQuiet(demand map[int]float64) (peak, quiet int) {
	first := true
	for hour := 0; hour < 24; hour++ {
		value, ok := demand[hour]
		if !ok {
			continue
		}
		if first {
			peak, quiet = hour, hour
			first = false
			continue
		}
		if value > demand[peak] {
			peak = hour
		}
		if value < demand[quiet] {
			quiet = hour
		}
	}
	return peak, quiet
}
