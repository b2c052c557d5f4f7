package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/eventdesk/reservations/internal/core/domain"
)

// errorResponse documents the error envelope for swagger; the central error
// handler renders it.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// flexString accepts a JSON string, number or boolean and keeps its text.
// Older clients send pagination and ids either way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*f = flexString(x)
	case json.Number:
		*f = flexString(x.String())
	case bool:
		*f = flexString(strconv.FormatBool(x))
	default:
		return fmt.Errorf("expected string, number or boolean, got %s", string(b))
	}
	return nil
}

// UnmarshalParam lets echo bind form and query values.
func (f *flexString) UnmarshalParam(s string) error {
	*f = flexString(s)
	return nil
}

func (f flexString) String() string { return strings.TrimSpace(string(f)) }

// --- Requests ---

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type hostEventsRequest struct {
	From   flexString `json:"from"   form:"from"`
	Offset flexString `json:"offset" form:"offset"`
	Limit  flexString `json:"limit"  form:"limit"`
}

type reserveRequest struct {
	EventID flexString `json:"event_id" form:"event_id" validate:"required"`
	Reserve flexString `json:"reserve"  form:"reserve"  validate:"required,oneof=true false"`
}

// --- Responses ---

type userResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GroupID int    `json:"group_id"`
}

type loginResponse struct {
	Code  int          `json:"code"`
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type eventResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
}

type hostEventResponse struct {
	eventResponse
	AttendeeCount     int64 `json:"attendee_count"`
	// NumberOfAttendees repeats AttendeeCount under the name older clients read.
	NumberOfAttendees int64 `json:"number_of_attendees"`
}

type eventsResponse struct {
	Code   int             `json:"code"`
	Events []eventResponse `json:"events"`
}

type hostEventsResponse struct {
	Code   int                 `json:"code"`
	Events []hostEventResponse `json:"events"`
}

type toggleResponse struct {
	Code    int    `json:"code"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}

// --- Mapping ---

func toUserResponse(a *domain.Actor) userResponse {
	return userResponse{ID: a.ID, Name: a.DisplayName, GroupID: int(a.Role)}
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		UserID:    e.HostID,
		Name:      e.Name,
		StartDate: e.StartDate.UTC().Format(domain.StartDateLayout),
	}
}

func toEventsResponse(events []domain.Event) eventsResponse {
	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return eventsResponse{Code: 200, Events: out}
}

func toHostEventsResponse(events []domain.EventWithAttendance) hostEventsResponse {
	out := make([]hostEventResponse, len(events))
	for i, e := range events {
		out[i] = hostEventResponse{
			eventResponse:     toEventResponse(e.Event),
			AttendeeCount:     e.AttendeeCount,
			NumberOfAttendees: e.AttendeeCount,
		}
	}
	return hostEventsResponse{Code: 200, Events: out}
}

func toToggleResponse(o domain.ToggleOutcome) toggleResponse {
	resp := toggleResponse{Code: o.LegacyCode(), Outcome: string(o)}
	switch o {
	case domain.OutcomeAlreadyReserved:
		resp.Message = "Already reserved"
	case domain.OutcomeNotReservedCannotCancel:
		resp.Message = "Not reserved"
	}
	return resp
}

// jsonFieldName reports validation failures by their wire name.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
