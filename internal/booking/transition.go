package booking

import "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"

// Action names a lifecycle command.  Every action has an explicit list of
// statuses it may be applied from; anything else is an InvalidTransitionError.
type Action string

const (
    ActionApprove  Action = "approve"
    ActionDecline  Action = "decline"
    ActionCancel   Action = "cancel"
    ActionMarkPaid Action = "mark-paid"
    ActionCheckIn  Action = "check-in"
    ActionComplete Action = "complete"

    // ActionDelete is the guest's soft delete.  Not a lifecycle transition
    // (the status stays CANCELLED or REJECTED) but it reuses the same error
    // shape when attempted from any other status.
    ActionDelete Action = "delete"
)

// transition defines one row of the lifecycle table: the statuses an action
// accepts and the status it produces.
type transition struct {
    from map[model.BookingStatus]bool
    to   model.BookingStatus
}

func statuses(ss ...model.BookingStatus) map[model.BookingStatus]bool {
    m := make(map[model.BookingStatus]bool, len(ss))
    for _, s := range ss {
        m[s] = true
    }
    return m
}

// transitions is the closed lifecycle table.  Terminal statuses appear in
// no `from` set, so nothing ever leaves them.
var transitions = map[Action]transition{
    ActionApprove: {
        from: statuses(model.StatusRequested),
        to:   model.StatusApproved,
    },
    ActionDecline: {
        from: statuses(model.StatusRequested, model.StatusApproved),
        to:   model.StatusRejected,
    },
    ActionCancel: {
        from: statuses(model.StatusRequested, model.StatusAwaitingPayment,
            model.StatusApproved, model.StatusConfirmed, model.StatusCheckedIn),
        to: model.StatusCancelled,
    },
    ActionMarkPaid: {
        from: statuses(model.StatusRequested, model.StatusApproved,
            model.StatusAwaitingPayment),
        to: model.StatusConfirmed,
    },
    ActionCheckIn: {
        from: statuses(model.StatusConfirmed),
        to:   model.StatusCheckedIn,
    },
    ActionComplete: {
        from: statuses(model.StatusConfirmed, model.StatusCheckedIn),
        to:   model.StatusCompleted,
    },
}

// NextStatus validates that the action is legal from the current status and
// returns the resulting status.  It must be called before any side effect
// of the action is applied.
func NextStatus(action Action, current model.BookingStatus) (model.BookingStatus, error) {
    t, ok := transitions[action]
    if !ok || !t.from[current] {
        return "", &InvalidTransitionError{Action: action, Status: current}
    }
    return t.to, nil
}
