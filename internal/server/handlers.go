package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/smokyabdulrahman/prayer-engine/internal/schedule"
)

// Defaults fill in calculation settings a request leaves out.
type Defaults struct {
	Convention string
	School     prayer.School
	Offsets    prayer.Offsets
	Timezone   string
}

// Handler serves the prayer time endpoints.
type Handler struct {
	defaults Defaults
	now      func() time.Time
}

// NewHandler creates a handler. A nil now uses time.Now.
func NewHandler(defaults Defaults, now func() time.Time) *Handler {
	if defaults.Convention == "" {
		defaults.Convention = prayer.DefaultConvention
	}
	if now == nil {
		now = time.Now
	}
	return &Handler{defaults: defaults, now: now}
}

// requestError is a validation failure reported as 400.
type requestError struct {
	code string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(c *gin.Context, err error) {
	detail := ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()}
	var re *requestError
	if errors.As(err, &re) {
		detail.Code = re.code
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: detail})
}

// resolve turns a query into an engine config plus the echoed settings.
func (h *Handler) resolve(q DayQuery) (prayer.Config, Settings, error) {
	tzName := q.Timezone
	if tzName == "" {
		tzName = h.defaults.Timezone
	}
	if tzName == "" {
		tzName = "UTC"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return prayer.Config{}, Settings{}, &requestError{"INVALID_TIMEZONE", fmt.Sprintf("unknown timezone %q", tzName)}
	}

	date := h.now().In(loc)
	if q.Date != "" {
		date, err = time.ParseInLocation("2006-01-02", q.Date, loc)
		if err != nil {
			return prayer.Config{}, Settings{}, &requestError{"INVALID_DATE", "date must be in YYYY-MM-DD format"}
		}
	}

	convName := h.defaults.Convention
	if q.Convention != "" {
		conv, ok := prayer.Lookup(q.Convention)
		if !ok {
			return prayer.Config{}, Settings{}, &requestError{"INVALID_CONVENTION", fmt.Sprintf("unknown convention %q", q.Convention)}
		}
		convName = conv.Name
	}

	school := h.defaults.School
	if q.School != "" {
		school, err = prayer.ParseSchool(q.School)
		if err != nil {
			return prayer.Config{}, Settings{}, &requestError{"INVALID_SCHOOL", err.Error()}
		}
	}

	offsets := h.defaults.Offsets
	if q.Offsets != "" {
		offsets, err = prayer.ParseOffsets(q.Offsets)
		if err != nil {
			return prayer.Config{}, Settings{}, &requestError{"INVALID_OFFSETS", err.Error()}
		}
	}

	cfg := prayer.Config{
		Location:   prayer.Location{Latitude: *q.Latitude, Longitude: *q.Longitude},
		Date:       date,
		Convention: convName,
		School:     school,
		Offsets:    offsets,
	}
	settings := Settings{
		Location:   cfg.Location,
		Timezone:   loc.String(),
		Convention: convName,
		School:     school,
	}
	for e, n := range offsets {
		if n != 0 {
			if settings.Offsets == nil {
				settings.Offsets = map[string]int{}
			}
			settings.Offsets[e.String()] = n
		}
	}
	return cfg, settings, nil
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListConventions handles GET /api/v1/conventions.
func (h *Handler) ListConventions(c *gin.Context) {
	var out []ConventionInfo
	for _, conv := range prayer.Conventions() {
		out = append(out, ConventionInfo{
			Name:         conv.Name,
			Description:  conv.Description,
			FajrAngle:    conv.FajrAngle,
			IshaAngle:    conv.IshaAngle,
			IshaInterval: conv.IshaInterval,
		})
	}
	c.JSON(http.StatusOK, gin.H{"conventions": out})
}

// Times handles GET /api/v1/times.
func (h *Handler) Times(c *gin.Context) {
	var q TimesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	cfg, settings, err := h.resolve(q.DayQuery)
	if err != nil {
		badRequest(c, err)
		return
	}

	days := q.Days
	if days == 0 {
		days = 1
	}
	all, err := prayer.ComputeDays(c.Request.Context(), cfg, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "CALCULATION_FAILED", Message: err.Error()},
		})
		return
	}

	resp := TimesResponse{Settings: settings, Days: make([]DayTimes, len(all))}
	for i, t := range all {
		resp.Days[i] = DayTimes{
			Date:  cfg.Date.AddDate(0, 0, i).Format("2006-01-02"),
			Times: t,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Schedule handles GET /api/v1/schedule.
func (h *Handler) Schedule(c *gin.Context) {
	var q DayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	cfg, settings, err := h.resolve(q)
	if err != nil {
		badRequest(c, err)
		return
	}
	t, err := prayer.Compute(cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "CALCULATION_FAILED", Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, ScheduleResponse{
		Settings: settings,
		Date:     cfg.Date.Format("2006-01-02"),
		Schedule: schedule.Build(t),
	})
}

// State handles GET /api/v1/state. The day defaults to the civil day of
// the instant being classified; an explicit date must be that same day.
func (h *Handler) State(c *gin.Context) {
	var q StateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	at := h.now()
	if q.At != "" {
		var err error
		at, err = time.Parse(time.RFC3339, q.At)
		if err != nil {
			badRequest(c, &requestError{"INVALID_TIME", "at must be an RFC 3339 timestamp"})
			return
		}
	}

	cfg, settings, err := h.resolve(q.DayQuery)
	if err != nil {
		badRequest(c, err)
		return
	}
	if q.Date == "" {
		cfg.Date = at.In(cfg.Date.Location())
	} else if !sameCivilDay(cfg.Date, at) {
		badRequest(c, &requestError{"INVALID_TIME", fmt.Sprintf("at is not on %s in %s", q.Date, settings.Timezone)})
		return
	}
	t, err := prayer.Compute(cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "CALCULATION_FAILED", Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, StateResponse{
		Settings: settings,
		At:       at.In(cfg.Date.Location()),
		State:    schedule.Summarize(schedule.Classify(t, at)),
	})
}

// athanRow is one line of the athan page.
type athanRow struct {
	Name   string
	Time   string
	Period string
	Next   bool
}

type athanPage struct {
	City   string
	Date   string
	Rows   []athanRow
	Status string
}

// Athan handles GET /athan, a printable page of the day's times.
func (h *Handler) Athan(c *gin.Context) {
	var q AthanQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	cfg, settings, err := h.resolve(q.DayQuery)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	t, err := prayer.Compute(cfg)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to compute prayer times")
		return
	}

	// Status and the next row only describe the current day.
	now := h.now()
	today := sameCivilDay(cfg.Date, now)
	prayers := t.Prayers(prayer.AllEvents)
	next, hasNext := prayer.Next(prayers, now)
	hasNext = hasNext && today

	layout := prayer.ClockLayout(q.TimeFormat)
	page := athanPage{
		City: strings.ToUpper(q.City),
		Date: strings.ToUpper(cfg.Date.Format("January 2, 2006")),
	}
	if page.City == "" {
		page.City = settings.Timezone
	}
	for _, p := range prayers {
		clock, period, _ := strings.Cut(p.Time.Format(layout), " ")
		page.Rows = append(page.Rows, athanRow{
			Name:   strings.ToUpper(p.Name()),
			Time:   clock,
			Period: period,
			Next:   hasNext && p.Event == next.Event,
		})
	}

	if today {
		page.Status = athanStatus(schedule.Summarize(schedule.Classify(t, now)))
	}

	c.HTML(http.StatusOK, "athan.html", page)
}

func athanStatus(sum schedule.Summary) string {
	switch sum.Kind {
	case "prayer":
		return fmt.Sprintf("%s · %s left", sum.Label, prayer.FormatRemaining(sum.Remaining))
	case "forbidden":
		return fmt.Sprintf("%s · no prayer for %s", sum.Label, prayer.FormatRemaining(sum.Remaining))
	}
	return ""
}

// sameCivilDay reports whether instant falls on day's calendar date in
// day's location.
func sameCivilDay(day, instant time.Time) bool {
	y1, m1, d1 := day.Date()
	y2, m2, d2 := instant.In(day.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
