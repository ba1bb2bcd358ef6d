package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/slotbooking/booking-app/booking"
	"github.com/slotbooking/booking-app/controllers"
	"github.com/slotbooking/booking-app/models"
	"github.com/slotbooking/booking-app/routes"
)

const testSecret = "test-secret"

type fakeBooker struct {
	bookFn       func(ctx context.Context, in booking.BookInput) (*models.Appointment, error)
	rescheduleFn func(ctx context.Context, in booking.RescheduleInput) (*models.Appointment, error)
	cancelFn     func(ctx context.Context, in booking.CancelInput) (*models.Appointment, error)
}

func (f *fakeBooker) Book(ctx context.Context, in booking.BookInput) (*models.Appointment, error) {
	return f.bookFn(ctx, in)
}

func (f *fakeBooker) Reschedule(ctx context.Context, in booking.RescheduleInput) (*models.Appointment, error) {
	return f.rescheduleFn(ctx, in)
}

func (f *fakeBooker) Cancel(ctx context.Context, in booking.CancelInput) (*models.Appointment, error) {
	return f.cancelFn(ctx, in)
}

func newTestApp(t *testing.T, b booking.Booker) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	controllers.UseBooker(b)
	app := fiber.New()
	routes.SetupAppointmentRoutes(app)
	return app
}

func authToken(t *testing.T, userUID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_uid": userUID,
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestBookAppointmentCreated(t *testing.T) {
	app := newTestApp(t, &fakeBooker{
		bookFn: func(_ context.Context, in booking.BookInput) (*models.Appointment, error) {
			return &models.Appointment{
				AppointmentUID:   "apt_1",
				TimeSlotUID:      in.TimeSlotUID,
				CustomerName:     in.CustomerName,
				CustomerEmail:    in.CustomerEmail,
				CustomerPhone:    in.CustomerPhone,
				BookingReference: "BR12345",
				Status:           models.StatusBooked,
			}, nil
		},
	})

	req := jsonRequest(http.MethodPost, "/api/appointments", fiber.Map{
		"time_slot_uid":  "ts_1",
		"customer_name":  "Alice",
		"customer_email": "alice@example.com",
		"customer_phone": "555-0101",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var appointment models.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointment); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if appointment.BookingReference != "BR12345" {
		t.Errorf("booking_reference = %s, want BR12345", appointment.BookingReference)
	}
	if appointment.Status != models.StatusBooked {
		t.Errorf("status = %s, want booked", appointment.Status)
	}
}

func TestBookAppointmentConflict(t *testing.T) {
	app := newTestApp(t, &fakeBooker{
		bookFn: func(_ context.Context, _ booking.BookInput) (*models.Appointment, error) {
			return nil, booking.ErrSlotUnavailable
		},
	})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/appointments", fiber.Map{
		"time_slot_uid":  "ts_1",
		"customer_name":  "Bob",
		"customer_email": "bob@example.com",
		"customer_phone": "555-0102",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestBookAppointmentValidation(t *testing.T) {
	app := newTestApp(t, &fakeBooker{
		bookFn: func(_ context.Context, in booking.BookInput) (*models.Appointment, error) {
			return nil, in.Validate()
		},
	})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/appointments", fiber.Map{
		"time_slot_uid": "ts_1",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRescheduleRequiresToken(t *testing.T) {
	app := newTestApp(t, &fakeBooker{})

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/appointments/apt_1/reschedule", fiber.Map{
		"new_time_slot_uid": "ts_2",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestReschedulePassesRequester(t *testing.T) {
	var got booking.RescheduleInput
	app := newTestApp(t, &fakeBooker{
		rescheduleFn: func(_ context.Context, in booking.RescheduleInput) (*models.Appointment, error) {
			got = in
			return &models.Appointment{
				AppointmentUID: in.AppointmentUID,
				TimeSlotUID:    in.NewTimeSlotUID,
				Status:         models.StatusRescheduled,
			}, nil
		},
	})

	req := jsonRequest(http.MethodPut, "/api/appointments/apt_1/reschedule", fiber.Map{
		"new_time_slot_uid": "ts_2",
	})
	req.Header.Set("Authorization", "Bearer "+authToken(t, "user_1", models.RoleCustomer))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.AppointmentUID != "apt_1" || got.NewTimeSlotUID != "ts_2" {
		t.Errorf("input = %+v", got)
	}
	if got.Requester.UserUID != "user_1" || got.Requester.Role != models.RoleCustomer {
		t.Errorf("requester = %+v, want user_1/customer", got.Requester)
	}
}

func TestRescheduleForbidden(t *testing.T) {
	app := newTestApp(t, &fakeBooker{
		rescheduleFn: func(_ context.Context, _ booking.RescheduleInput) (*models.Appointment, error) {
			return nil, booking.ErrUnauthorized
		},
	})

	req := jsonRequest(http.MethodPut, "/api/appointments/apt_1/reschedule", fiber.Map{
		"new_time_slot_uid": "ts_2",
	})
	req.Header.Set("Authorization", "Bearer "+authToken(t, "user_2", models.RoleCustomer))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestCancelNotFound(t *testing.T) {
	app := newTestApp(t, &fakeBooker{
		cancelFn: func(_ context.Context, _ booking.CancelInput) (*models.Appointment, error) {
			return nil, booking.ErrAppointmentNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/apt_missing", nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, "user_1", models.RoleCustomer))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCancelOK(t *testing.T) {
	app := newTestApp(t, &fakeBooker{
		cancelFn: func(_ context.Context, in booking.CancelInput) (*models.Appointment, error) {
			return &models.Appointment{
				AppointmentUID: in.AppointmentUID,
				Status:         models.StatusCancelled,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/apt_1", nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, "user_1", models.RoleCustomer))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var appointment models.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointment); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if appointment.Status != models.StatusCancelled {
		t.Errorf("status = %s, want cancelled", appointment.Status)
	}
}

func TestAdminAppointmentsRequiresAdminRole(t *testing.T) {
	app := newTestApp(t, &fakeBooker{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, "user_1", models.RoleCustomer))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}
