package booking

import (
    "errors"
    "testing"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

func TestNextStatus(t *testing.T) {
    cases := []struct {
        action Action
        from   model.BookingStatus
        want   model.BookingStatus
    }{
        {ActionApprove, model.StatusRequested, model.StatusApproved},
        {ActionDecline, model.StatusRequested, model.StatusRejected},
        {ActionDecline, model.StatusApproved, model.StatusRejected},
        {ActionCancel, model.StatusRequested, model.StatusCancelled},
        {ActionCancel, model.StatusAwaitingPayment, model.StatusCancelled},
        {ActionCancel, model.StatusApproved, model.StatusCancelled},
        {ActionCancel, model.StatusConfirmed, model.StatusCancelled},
        {ActionCancel, model.StatusCheckedIn, model.StatusCancelled},
        {ActionMarkPaid, model.StatusRequested, model.StatusConfirmed},
        {ActionMarkPaid, model.StatusApproved, model.StatusConfirmed},
        {ActionMarkPaid, model.StatusAwaitingPayment, model.StatusConfirmed},
        {ActionCheckIn, model.StatusConfirmed, model.StatusCheckedIn},
        {ActionComplete, model.StatusConfirmed, model.StatusCompleted},
        {ActionComplete, model.StatusCheckedIn, model.StatusCompleted},
    }
    for _, tc := range cases {
        got, err := NextStatus(tc.action, tc.from)
        if err != nil {
            t.Errorf("%s from %s: %v", tc.action, tc.from, err)
            continue
        }
        if got != tc.want {
            t.Errorf("%s from %s = %s, want %s", tc.action, tc.from, got, tc.want)
        }
    }
}

func TestTerminalStatusesAdmitNothing(t *testing.T) {
    terminal := []model.BookingStatus{
        model.StatusCompleted, model.StatusRejected,
        model.StatusCancelled, model.StatusExpired,
    }
    actions := []Action{
        ActionApprove, ActionDecline, ActionCancel,
        ActionMarkPaid, ActionCheckIn, ActionComplete,
    }
    for _, s := range terminal {
        for _, a := range actions {
            if _, err := NextStatus(a, s); err == nil {
                t.Errorf("%s from terminal %s succeeded", a, s)
            }
        }
    }
}

func TestNextStatusIllegal(t *testing.T) {
    cases := []struct {
        action Action
        from   model.BookingStatus
    }{
        {ActionApprove, model.StatusAwaitingPayment}, // instant book needs no approval
        {ActionApprove, model.StatusApproved},        // no double approval
        {ActionCheckIn, model.StatusRequested},
        {ActionCheckIn, model.StatusApproved},
        {ActionComplete, model.StatusRequested},
        {ActionDecline, model.StatusConfirmed}, // paid bookings are cancelled, not declined
    }
    for _, tc := range cases {
        _, err := NextStatus(tc.action, tc.from)
        var it *InvalidTransitionError
        if !errors.As(err, &it) {
            t.Errorf("%s from %s: err = %v, want InvalidTransitionError", tc.action, tc.from, err)
            continue
        }
        if it.Action != tc.action || it.Status != tc.from {
            t.Errorf("error carries %s/%s, want %s/%s", it.Action, it.Status, tc.action, tc.from)
        }
    }
}
