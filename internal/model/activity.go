package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScheduleItem is one row of the notice's schedule table.
type ScheduleItem struct {
	ID      string `json:"id"`
	Time    string `json:"time"`
	Content string `json:"content"`
	Speaker string `json:"speaker"`
}

// ExpenseItem is one expense line. Items are matched against the fixed
// catalog by exact Project text, not by ID.
type ExpenseItem struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Project     string  `json:"project"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	Total       float64 `json:"total"`
	Description string  `json:"description"`
}

// ActivityData is the root aggregate: everything the two document
// builders need, persisted as a whole.
type ActivityData struct {
	ChannelName      string         `json:"channelName"`
	ActivityDate     string         `json:"activityDate"` // YYYY-MM-DD
	StartTime        string         `json:"startTime"`
	EndTime          string         `json:"endTime"`
	Location         string         `json:"location"`
	ParticipantsDesc string         `json:"participantsDesc"`
	SubmitDate       string         `json:"submitDate"` // YYYY-MM-DD
	Schedule         []ScheduleItem `json:"schedule"`
	ParticipantCount int            `json:"participantCount"`
	Expenses         []ExpenseItem  `json:"expenses"`
}

const participantsDescSuffix = "川分部分绩优人员、复保工作人员"

// DeriveParticipantsDesc builds the participants description from the
// first two characters of the channel name. The derivation is one-shot:
// callers apply it only when channelName itself changes, so the field
// stays independently editable afterwards.
func DeriveParticipantsDesc(channelName string) string {
	runes := []rune(channelName)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes) + participantsDescSuffix
}

// ParseAmount converts free-text numeric input to a number, treating
// anything unparsable as 0.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// RecomputeTotal re-derives Total from Price and Quantity. Must be
// called after every Price or Quantity write.
func (e *ExpenseItem) RecomputeTotal() {
	e.Total = e.Price * e.Quantity
}

// ExpenseByProject returns the expense matching the project text, or a
// zero-valued placeholder when no item matches.
func (d *ActivityData) ExpenseByProject(project string) ExpenseItem {
	for _, e := range d.Expenses {
		if e.Project == project {
			return e
		}
	}
	return ExpenseItem{Project: project}
}

// TotalExpense sums Total across all expense items.
func (d *ActivityData) TotalExpense() float64 {
	var sum float64
	for _, e := range d.Expenses {
		sum += e.Total
	}
	return sum
}

// Clone returns a deep copy. Builders and subscribers receive copies so
// generation never observes a concurrent edit.
func (d *ActivityData) Clone() *ActivityData {
	out := *d
	out.Schedule = make([]ScheduleItem, len(d.Schedule))
	copy(out.Schedule, d.Schedule)
	out.Expenses = make([]ExpenseItem, len(d.Expenses))
	copy(out.Expenses, d.Expenses)
	return &out
}

// DefaultActivityData builds the fixed default template used on first
// start and after an explicit reset.
func DefaultActivityData(now time.Time) *ActivityData {
	today := now.Format("2006-01-02")
	return &ActivityData{
		ChannelName:      "大童保险销售服务有限公司四川分公司",
		ActivityDate:     today,
		StartTime:        "09:30",
		EndTime:          "16:30",
		Location:         "成都市锦江区东大路段",
		ParticipantsDesc: "大童川分部分绩优人员、复保工作人员",
		SubmitDate:       today,
		Schedule:         defaultSchedule(),
		ParticipantCount: 0,
		Expenses:         defaultExpenses(),
	}
}

func defaultSchedule() []ScheduleItem {
	rows := []ScheduleItem{
		{Time: "10:00-10:30", Content: "签到入场", Speaker: "李润林"},
		{Time: "10:30-11:00", Content: "公司介绍", Speaker: "李润林"},
		{Time: "11:00-12:00", Content: "业务专题培训", Speaker: "李润林"},
		{Time: "12:00-13:30", Content: "午餐及休息", Speaker: ""},
		{Time: "13:30-15:00", Content: "产品方案宣导", Speaker: "李润林"},
		{Time: "15:00-16:30", Content: "研讨及通关", Speaker: "渠道团队长"},
	}
	for i := range rows {
		rows[i].ID = uuid.New().String()
	}
	return rows
}

func defaultExpenses() []ExpenseItem {
	rows := []ExpenseItem{
		{Category: "住宿费", Project: ProjectAccommodation, Unit: "间/晚"},
		{Category: "交通费", Project: ProjectTransport, Unit: "项"},
		{Category: "餐费", Project: ProjectMeals, Unit: "元/人/天"},
		{Category: "茶点费", Project: ProjectRefreshments, Unit: "元/人/天"},
		{Category: "场地、设备租赁费", Project: ProjectVenueRental, Unit: "场"},
		{Category: "培训资料、文具费", Project: ProjectMaterials, Unit: "项"},
		{Category: "外聘教师课时费", Project: ProjectExternalTeacher, Unit: "课时"},
		{Category: "培训活动费", Project: ProjectFieldTrip, Unit: "项"},
		{Category: "培训宣传费", Project: ProjectPromotion, Unit: "项"},
		{Category: "其他费用", Project: ProjectPhotos, Unit: "项"},
	}
	for i := range rows {
		rows[i].ID = uuid.New().String()
	}
	return rows
}
