package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/model"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrExpenseNotFound = errors.New("no expense matches project")
	ErrRowNotFound     = errors.New("schedule row not found")
)

// Subscriber receives a full snapshot after every successful mutation.
type Subscriber func(snapshot *model.ActivityData)

// Manager owns the single live ActivityData value. All mutations go
// through typed operations; readers get deep-copy snapshots, so the
// document builders never observe a concurrent edit.
type Manager struct {
	mu     sync.Mutex
	data   *model.ActivityData
	subs   []Subscriber
	logger *zap.Logger
}

// NewManager creates a manager around an initial value, usually either
// a restored snapshot or the default template.
func NewManager(initial *model.ActivityData, logger *zap.Logger) *Manager {
	return &Manager{data: initial.Clone(), logger: logger}
}

// Get returns a deep-copy snapshot of the current value.
func (m *Manager) Get() *model.ActivityData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Clone()
}

// Subscribe registers a change listener. Listeners run synchronously in
// mutation order, outside the manager lock.
func (m *Manager) Subscribe(fn Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SetField updates a scalar text field by its wire name. Setting
// channelName also rewrites participantsDesc from the new name; the
// derivation fires only here, so later edits to participantsDesc stick.
func (m *Manager) SetField(name, value string) error {
	err := m.mutate(func(d *model.ActivityData) error {
		switch name {
		case "channelName":
			d.ChannelName = value
			d.ParticipantsDesc = model.DeriveParticipantsDesc(value)
		case "activityDate":
			d.ActivityDate = value
		case "startTime":
			d.StartTime = value
		case "endTime":
			d.EndTime = value
		case "location":
			d.Location = value
		case "participantsDesc":
			d.ParticipantsDesc = value
		case "submitDate":
			d.SubmitDate = value
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		return nil
	})
	return err
}

// SetParticipantCount updates the estimated head count.
func (m *Manager) SetParticipantCount(n int) {
	if n < 0 {
		n = 0
	}
	_ = m.mutate(func(d *model.ActivityData) error {
		d.ParticipantCount = n
		return nil
	})
}

// AddScheduleRow appends an empty schedule row and returns it.
func (m *Manager) AddScheduleRow() model.ScheduleItem {
	row := model.ScheduleItem{ID: uuid.New().String()}
	_ = m.mutate(func(d *model.ActivityData) error {
		d.Schedule = append(d.Schedule, row)
		return nil
	})
	return row
}

// RemoveScheduleRow filters the row with the given id out of the
// sequence. Removing an unknown id is a no-op.
func (m *Manager) RemoveScheduleRow(id string) {
	_ = m.mutate(func(d *model.ActivityData) error {
		kept := d.Schedule[:0]
		for _, row := range d.Schedule {
			if row.ID != id {
				kept = append(kept, row)
			}
		}
		d.Schedule = kept
		return nil
	})
}

// UpdateScheduleItem sets one field on the row with the given id.
func (m *Manager) UpdateScheduleItem(id, field, value string) error {
	return m.mutate(func(d *model.ActivityData) error {
		for i := range d.Schedule {
			if d.Schedule[i].ID != id {
				continue
			}
			switch field {
			case "time":
				d.Schedule[i].Time = value
			case "content":
				d.Schedule[i].Content = value
			case "speaker":
				d.Schedule[i].Speaker = value
			default:
				return fmt.Errorf("%w: %q", ErrUnknownField, field)
			}
			return nil
		}
		return fmt.Errorf("%w: %q", ErrRowNotFound, id)
	})
}

// UpdateExpense sets one field on the expense matched by exact project
// text. Price and quantity arrive as free text; writing either
// recomputes total with non-numeric input treated as 0.
func (m *Manager) UpdateExpense(project, field, value string) error {
	return m.mutate(func(d *model.ActivityData) error {
		for i := range d.Expenses {
			if d.Expenses[i].Project != project {
				continue
			}
			exp := &d.Expenses[i]
			switch field {
			case "price":
				exp.Price = model.ParseAmount(value)
				exp.RecomputeTotal()
			case "quantity":
				exp.Quantity = model.ParseAmount(value)
				exp.RecomputeTotal()
			case "unit":
				exp.Unit = value
			case "description":
				exp.Description = value
			default:
				return fmt.Errorf("%w: %q", ErrUnknownField, field)
			}
			return nil
		}
		return fmt.Errorf("%w: %q", ErrExpenseNotFound, project)
	})
}

// Reset overwrites the whole value with the default template.
func (m *Manager) Reset() {
	_ = m.mutate(func(d *model.ActivityData) error {
		*d = *model.DefaultActivityData(time.Now())
		return nil
	})
	m.logger.Info("Activity data reset to default template")
}

func (m *Manager) mutate(fn func(d *model.ActivityData) error) error {
	m.mu.Lock()
	if err := fn(m.data); err != nil {
		m.mu.Unlock()
		return err
	}
	snapshot := m.data.Clone()
	subs := m.subs
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return nil
}
