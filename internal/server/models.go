package server

import (
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/smokyabdulrahman/prayer-engine/internal/schedule"
)

// DayQuery selects a place, a civil day and the calculation settings.
// Pointers distinguish a missing coordinate from zero.
type DayQuery struct {
	Latitude   *float64 `form:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude  *float64 `form:"longitude" binding:"required,gte=-180,lte=180"`
	Timezone   string   `form:"timezone"`
	Date       string   `form:"date"`
	Convention string   `form:"convention"`
	School     string   `form:"school"`
	Offsets    string   `form:"offsets"`
}

// TimesQuery is the query of GET /api/v1/times.
type TimesQuery struct {
	DayQuery
	Days int `form:"days" binding:"omitempty,min=1,max=31"`
}

// StateQuery is the query of GET /api/v1/state.
type StateQuery struct {
	DayQuery
	// At is an RFC 3339 instant; empty means now.
	At string `form:"at"`
}

// AthanQuery is the query of GET /athan.
type AthanQuery struct {
	DayQuery
	City       string `form:"city"`
	TimeFormat string `form:"time_format" binding:"omitempty,oneof=12h 24h"`
}

// Settings echoes the resolved inputs of a calculation.
type Settings struct {
	Location   prayer.Location `json:"location"`
	Timezone   string          `json:"timezone"`
	Convention string          `json:"convention"`
	School     prayer.School   `json:"school"`
	Offsets    map[string]int  `json:"offsets,omitempty"`
}

type DayTimes struct {
	Date  string       `json:"date"`
	Times prayer.Times `json:"times"`
}

type TimesResponse struct {
	Settings Settings   `json:"settings"`
	Days     []DayTimes `json:"days"`
}

type ScheduleResponse struct {
	Settings Settings          `json:"settings"`
	Date     string            `json:"date"`
	Schedule schedule.Schedule `json:"schedule"`
}

type StateResponse struct {
	Settings Settings         `json:"settings"`
	At       time.Time        `json:"at"`
	State    schedule.Summary `json:"state"`
}

type ConventionInfo struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	FajrAngle    float64 `json:"fajr_angle"`
	IshaAngle    float64 `json:"isha_angle,omitempty"`
	IshaInterval int     `json:"isha_interval,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
